/*
 * @module api/middleware/language
 * @description Content-language negotiation. Resolves the response language
 *              from the lang query parameter or the Accept-Language header;
 *              the service speaks English and Arabic, defaulting to English.
 * @architecture MVC - middleware layer
 * @dependencies golang.org/x/text/language
 */

package middleware

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
)

type contextKey string

const languageKey contextKey = "language"

var supported = language.NewMatcher([]language.Tag{
	language.English, // default
	language.Arabic,
})

// Language resolves the request language and stores it in the context.
// The explicit lang query parameter wins over the Accept-Language header.
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := "en"
		if q := r.URL.Query().Get("lang"); q != "" {
			if tag, err := language.Parse(q); err == nil {
				lang = baseOf(tag)
			}
		} else if accept := r.Header.Get("Accept-Language"); accept != "" {
			if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
				tag, _, _ := supported.Match(tags...)
				lang = baseOf(tag)
			}
		}

		ctx := context.WithValue(r.Context(), languageKey, lang)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestLanguage returns the negotiated language of a request, en or ar.
func RequestLanguage(r *http.Request) string {
	if lang, ok := r.Context().Value(languageKey).(string); ok {
		return lang
	}
	return "en"
}

func baseOf(tag language.Tag) string {
	base, _ := tag.Base()
	if base.String() == "ar" {
		return "ar"
	}
	return "en"
}
