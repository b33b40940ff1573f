package main

import "net/http"

func (app *application) routes() *http.ServeMux {
	mux := http.NewServeMux()

	common := func(next http.Handler) http.Handler {
		return app.recoverPanic(app.logRequest(next))
	}

	mux.Handle("POST /api/reports/analyze", common(http.HandlerFunc(app.analyzePOST)))
	mux.Handle("GET /api/healthy", common(http.HandlerFunc(app.healthy)))

	return mux
}
