package middleware

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
)

type localeContextKey struct{}

var supportedLocales = language.NewMatcher([]language.Tag{
	language.English, // default
	language.Hindi,
})

// I18N resolves the request locale from X-Locale or Accept-Language and
// stores it in the context. Notification copy is English-only for now; the
// locale is carried for response formatting.
func I18N(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept := r.Header.Get("X-Locale")
		if accept == "" {
			accept = r.Header.Get("Accept-Language")
		}
		tag, _ := language.MatchStrings(supportedLocales, accept)
		base, _ := tag.Base()
		ctx := context.WithValue(r.Context(), localeContextKey{}, base.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LocaleFromContext returns the resolved locale, defaulting to "en".
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(localeContextKey{}).(string); ok && v != "" {
		return v
	}
	return "en"
}
