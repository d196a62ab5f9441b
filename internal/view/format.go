package view

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is shown in place of a number the API sent in a form that
// does not parse as a decimal.
const NotAvailable = "N/A"

var supportedLocales = []language.Tag{
	language.AmericanEnglish,
	language.BritishEnglish,
	language.German,
	language.French,
	language.Spanish,
	language.Italian,
	language.Dutch,
	language.Russian,
	language.Japanese,
	language.Chinese,
}

// Calendar date layouts, no time component.
var dateLayouts = map[language.Tag]string{
	language.AmericanEnglish: "1/2/2006",
	language.BritishEnglish:  "02/01/2006",
	language.German:          "2.1.2006",
	language.French:          "02/01/2006",
	language.Spanish:         "2/1/2006",
	language.Italian:         "2/1/2006",
	language.Dutch:           "2-1-2006",
	language.Russian:         "02.01.2006",
	language.Japanese:        "2006/1/2",
	language.Chinese:         "2006/1/2",
}

var localeMatcher = language.NewMatcher(supportedLocales)

var maxInt64 = decimal.NewFromInt(math.MaxInt64)

// MatchLocale picks the supported locale closest to an Accept-Language
// header value, or fallback when the header is empty or matches nothing.
func MatchLocale(acceptLanguage string, fallback language.Tag) language.Tag {
	if strings.TrimSpace(acceptLanguage) == "" {
		return fallback
	}
	_, idx, conf := localeMatcher.Match(parseAccept(acceptLanguage)...)
	if conf == language.No {
		return fallback
	}
	return supportedLocales[idx]
}

// ParseLocale maps a BCP 47 string onto a supported locale, defaulting to en-US.
func ParseLocale(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return language.AmericanEnglish
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return language.AmericanEnglish
	}
	return supportedLocales[idx]
}

func parseAccept(header string) []language.Tag {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return []language.Tag{language.Und}
	}
	return tags
}

// Formatter renders API decimal strings and dates for one locale.
type Formatter struct {
	tag        language.Tag
	printer    *message.Printer
	dateLayout string
	groupSep   string
}

func NewFormatter(tag language.Tag) *Formatter {
	layout, ok := dateLayouts[tag]
	if !ok {
		tag = language.AmericanEnglish
		layout = dateLayouts[tag]
	}
	p := message.NewPrinter(tag)
	return &Formatter{
		tag:        tag,
		printer:    p,
		dateLayout: layout,
		groupSep:   groupSeparator(p),
	}
}

func (f *Formatter) Locale() language.Tag {
	return f.tag
}

// Price renders "$" followed by the value fixed to two fractional digits,
// without grouping: "50000.456" -> "$50000.46".
func (f *Formatter) Price(s string) string {
	d, err := parseDecimal(s)
	if err != nil {
		return NotAvailable
	}
	return "$" + d.StringFixed(2)
}

// Integer drops the fractional part (no rounding) and groups thousands
// with the locale separator: "19000000.99" -> "19,000,000".
func (f *Formatter) Integer(s string) string {
	d, err := parseDecimal(s)
	if err != nil {
		return NotAvailable
	}
	d = d.Truncate(0)
	if d.Abs().LessThanOrEqual(maxInt64) {
		return f.printer.Sprintf("%d", d.IntPart())
	}
	return groupDigits(d.String(), f.groupSep)
}

// USD is Integer with a leading dollar sign.
func (f *Formatter) USD(s string) string {
	out := f.Integer(s)
	if out == NotAvailable {
		return out
	}
	return "$" + out
}

// Rank renders a market cap rank, or NotAvailable when the asset is unranked.
func (f *Formatter) Rank(rank int) string {
	if rank <= 0 {
		return NotAvailable
	}
	return f.printer.Sprintf("%d", rank)
}

// Date renders the calendar date in the locale's short form, in UTC since
// the history points are daily UTC buckets.
func (f *Formatter) Date(t time.Time) string {
	return t.UTC().Format(f.dateLayout)
}

func parseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}

// groupSeparator extracts the thousands separator the printer uses.
func groupSeparator(p *message.Printer) string {
	sample := p.Sprintf("%d", 1000000)
	var sep strings.Builder
	for i, r := range sample {
		if i == 0 {
			continue
		}
		if unicode.IsDigit(r) {
			if sep.Len() > 0 {
				break
			}
			continue
		}
		sep.WriteRune(r)
	}
	if sep.Len() == 0 {
		return ","
	}
	return sep.String()
}

func groupDigits(digits, sep string) string {
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}
