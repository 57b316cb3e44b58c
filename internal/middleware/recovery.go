package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// panicBody はハンドラー内でpanicした場合に返す固定レスポンス。
// クライアントは常にJSONを期待しているため、plain textは返さない。
const panicBody = `{"success":false,"message":"内部エラーが発生しました。","code":"INTERNAL_ERROR"}`

// NewRecoveryMiddleware はハンドラーのpanicを捕捉し、
// スタックトレースを記録した上でJSONの500レスポンスを返す。
func NewRecoveryMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("panic recovered",
						slog.Any("panic", rec),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("stack", string(debug.Stack())),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(panicBody))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
