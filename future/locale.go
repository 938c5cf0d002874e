package future

import (
	"golang.org/x/text/language"

	"github.com/saltfishpr/futures/bizerrors"
	"github.com/saltfishpr/futures/i18n"
)

// DescribeError localizes err's message via catalog. If err isn't an
// *ErrorCarrier, or catalog has no entry for lang or its fallback, it
// falls back to err.Error().
//
// catalog is expected to hold one template per language that interpolates
// the carrier's original message, e.g. built with
// i18n.NewTextTemplateI18n().MustAdd(language.English, "operation failed: {{.}}").
func DescribeError(catalog i18n.I18n, lang language.Tag, err error) string {
	if err == nil {
		return ""
	}
	carrier := bizerrors.FromError(err)
	if carrier == nil {
		return err.Error()
	}
	msg, lerr := catalog.Get(lang, i18n.WithArg(carrier.GetMessage()))
	if lerr != nil {
		return err.Error()
	}
	return msg
}
