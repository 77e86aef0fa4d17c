package ngwords

import (
	"regexp"
	"strings"
)

// rewrite is one step of the promotional-noise cleanup pipeline.
type rewrite struct {
	pattern *regexp.Regexp
	repl    string
}

// rewrites is applied strictly in order. Later patterns assume earlier noise
// is already gone (the quantity+unit pass would otherwise misread date
// fragments as quantities), so the order must not be changed.
var rewrites = []rewrite{
	// Date and period noise
	{regexp.MustCompile(`-\d+迄`), ""},
	{regexp.MustCompile(`-\d+(は|まで)`), ""},
	{regexp.MustCompile(`\d+(迄|まで|代)`), ""},
	{regexp.MustCompile(`(20|19)\d+年`), ""},
	{regexp.MustCompile(`\d+月\d+日`), ""},
	{regexp.MustCompile(`\d+月`), ""},
	{regexp.MustCompile(`\d+日間`), ""},
	{regexp.MustCompile(`\d+日`), ""},

	// Price and discount noise
	{regexp.MustCompile(`\d+円引(き|)`), ""},
	{regexp.MustCompile(`全\d+色`), ""},
	{regexp.MustCompile(`増量\d+倍`), ""},
	{regexp.MustCompile(`いずれか\d+点`), ""},
	{regexp.MustCompile(`ポイント\d+倍`), ""},
	{regexp.MustCompile(`\d+月(上旬|中旬|下旬)`), ""},
	{regexp.MustCompile(`(?i)(先着|抽選)\d+(人|名)(様|)`), ""},
	{regexp.MustCompile(`(?i)(最大|)\d+円off`), ""},
	{regexp.MustCompile(`(?i)(最大|)p\d+倍`), ""},
	{regexp.MustCompile(`(?i)\d+円off`), ""},
	{regexp.MustCompile(`(?i)\d+円`), ""},
	{regexp.MustCompile(`(?i)\d+%off`), ""},
	{regexp.MustCompile(`\d+/\d+\((月|火|水|木|金|土|日)\)`), ""},
	{regexp.MustCompile(`\d+/\d+ \d+:\d+-\d+:\d+`), ""},
	{regexp.MustCompile(`\d+%ポイントバック`), ""},
	{regexp.MustCompile(`(?i)スーパーsale`), ""},
	{regexp.MustCompile(`(協賛|)ポイント(最大|)([1-9]\d*|0)(\.[0-9]+)?倍(!|)`), ""},
	{regexp.MustCompile(`\d+/\d+-\d+/\d+`), ""},
	{regexp.MustCompile(`\d+/\d+-\d+:\d+`), ""},
	{regexp.MustCompile(`\d+/\d+ \d+:\d+-`), ""},
	{regexp.MustCompile(`\d+/\d+ \d+:\d+`), ""},
	{regexp.MustCompile(`(?i)\d+:\d+(am|pm)`), ""},
	{regexp.MustCompile(`(?i)\d+:\d+`), ""},
	{regexp.MustCompile(`\((日|月|火|水|木|金|土)\)\d+時\d+分までエントリー`), ""},
	{regexp.MustCompile(`(1|2|3|4|5|6|7|8|9|10|11|12)/\d+`), ""},

	// Isolated digit/punctuation-only tokens
	{regexp.MustCompile(`^[0-9!@#$%^&*_+\-=]+\s`), ""},
	{regexp.MustCompile(`\s[0-9!@#$%^&*_+\-=]+\s`), " "},
	{regexp.MustCompile(`\s[0-9!@#$%^&*_+\-=]+$`), ""},

	// Quantity+unit tokens
	{regexp.MustCompile(`^([0-9,]+)?(個|本|枚|回|袋|ml|g|kg|l)(入り|入|セット|)\s`), ""},
	{regexp.MustCompile(`\s([0-9,]+)?(個|本|枚|回|袋|ml|g|kg|l)(入り|入|セット|)\s`), " "},
	{regexp.MustCompile(`\s([0-9,]+)?(個|本|枚|回|袋|ml|g|kg|l)(入り|入|セット|)$`), ""},
}

var collapseSpace = regexp.MustCompile(`\s+`)

// Clean strips date, price, discount, quantity and banner noise from a title
// via the ordered rewrite pipeline, then collapses whitespace. It is total:
// input that matches nothing is echoed unchanged.
func Clean(title string) string {
	for _, rw := range rewrites {
		title = rw.pattern.ReplaceAllString(title, rw.repl)
	}
	title = collapseSpace.ReplaceAllString(title, " ")
	return strings.TrimSpace(title)
}
