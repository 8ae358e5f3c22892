// Package format turns result messages into display segments and builds video links.
package format

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"

	"utsulog/internal/domain"
)

// SegmentKind identifies how a piece of a message is displayed
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentHighlight
	SegmentEmoji
)

// Segment is one displayable run of a message
type Segment struct {
	Kind SegmentKind
	Text string // for emoji, the original :shortcode:
	URL  string // emoji image URL

	// Highlighted marks an emoji whose shortcode matched the query
	Highlighted bool
}

var shortcodePattern = regexp.MustCompile(`:[A-Za-z0-9_\-]+:`)

// Terms returns the query terms to highlight. Exact queries are one term;
// otherwise the query is split on whitespace.
func Terms(query string, exact bool) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if exact {
		return []string{query}
	}

	seen := make(map[string]bool)
	var terms []string
	for _, f := range strings.Fields(query) {
		key := fold(f)
		if seen[key] {
			continue
		}
		seen[key] = true
		terms = append(terms, f)
	}
	return terms
}

// Tokenize splits message into text, highlight and emoji segments.
// Adjacent text and highlight runs are merged.
func Tokenize(message string, terms []string, emojis domain.EmojiMap) []Segment {
	runes := []rune(message)
	marked := highlightMask(runes, terms)

	var segments []Segment
	emit := func(kind SegmentKind, text string) {
		if text == "" {
			return
		}
		if n := len(segments); n > 0 && segments[n-1].Kind == kind && kind != SegmentEmoji {
			segments[n-1].Text += text
			return
		}
		segments = append(segments, Segment{Kind: kind, Text: text})
	}
	emitText := func(from, to int) {
		if from >= to {
			return
		}
		start := from
		for i := from; i <= to; i++ {
			if i == to || marked[i] != marked[start] {
				kind := SegmentText
				if marked[start] {
					kind = SegmentHighlight
				}
				emit(kind, string(runes[start:i]))
				start = i
			}
		}
	}

	pos := 0
	for _, loc := range shortcodeRuneRanges(message, emojis) {
		code := string(runes[loc[0]:loc[1]])
		u, _ := emojis.Lookup(code)
		emitText(pos, loc[0])
		hl := false
		for i := loc[0]; i < loc[1]; i++ {
			if marked[i] {
				hl = true
				break
			}
		}
		segments = append(segments, Segment{Kind: SegmentEmoji, Text: code, URL: u, Highlighted: hl})
		pos = loc[1]
	}
	emitText(pos, len(runes))

	return segments
}

// Plain joins segments back into text
func Plain(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// shortcodeRuneRanges returns [start,end) rune offsets of every known :name: in s.
// An unknown candidate gives its closing colon back, so ":x:wave:" still finds ":wave:".
func shortcodeRuneRanges(s string, emojis domain.EmojiMap) [][2]int {
	if len(emojis) == 0 {
		return nil
	}
	var ranges [][2]int
	for off := 0; off < len(s); {
		loc := shortcodePattern.FindStringIndex(s[off:])
		if loc == nil {
			break
		}
		from, to := off+loc[0], off+loc[1]
		if _, ok := emojis.Lookup(s[from:to]); !ok {
			off = to - 1
			continue
		}
		start := utf8.RuneCountInString(s[:from])
		ranges = append(ranges, [2]int{start, start + utf8.RuneCountInString(s[from:to])})
		off = to
	}
	return ranges
}

// highlightMask marks runes covered by a term, matching longest terms first
func highlightMask(runes []rune, terms []string) []bool {
	marked := make([]bool, len(runes))
	if len(terms) == 0 {
		return marked
	}

	folded := make([]rune, len(runes))
	for i, r := range runes {
		folded[i] = foldRune(r)
	}

	foldedTerms := make([][]rune, 0, len(terms))
	for _, t := range terms {
		ft := []rune(fold(t))
		if len(ft) > 0 {
			foldedTerms = append(foldedTerms, ft)
		}
	}
	sort.SliceStable(foldedTerms, func(i, j int) bool {
		return len(foldedTerms[i]) > len(foldedTerms[j])
	})

	for i := 0; i < len(folded); {
		matched := 0
		for _, ft := range foldedTerms {
			if hasPrefixAt(folded, ft, i) {
				matched = len(ft)
				break
			}
		}
		if matched == 0 {
			i++
			continue
		}
		for j := i; j < i+matched; j++ {
			marked[j] = true
		}
		i += matched
	}
	return marked
}

func hasPrefixAt(s, prefix []rune, at int) bool {
	if at+len(prefix) > len(s) {
		return false
	}
	for k, r := range prefix {
		if s[at+k] != r {
			return false
		}
	}
	return true
}

// foldRune maps a rune to its case- and width-insensitive form, one rune for one
func foldRune(r rune) rune {
	if f := width.LookupRune(r).Folded(); f != 0 {
		r = f
	}
	return unicode.ToLower(r)
}

func fold(s string) string {
	return strings.Map(foldRune, s)
}

// ElapsedSeconds converts "hh:mm:ss", "mm:ss" or "ss" to seconds. Unparseable parts count
// as zero and any other shape is zero.
func ElapsedSeconds(elapsed string) int {
	elapsed = strings.TrimSpace(elapsed)
	if elapsed == "" {
		return 0
	}
	parts := strings.Split(elapsed, ":")
	if len(parts) > 3 {
		return 0
	}
	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			n = 0
		}
		total = total*60 + n
	}
	return total
}

// WatchURL links to the video at the message's offset
func WatchURL(videoID, elapsed string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s&t=%ds", url.QueryEscape(videoID), ElapsedSeconds(elapsed))
}

// Datetime renders an RFC 3339 timestamp in the local zone using layout.
// Values that do not parse are returned unchanged.
func Datetime(raw, layout string) string {
	if raw == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	if layout == "" {
		layout = "2006-01-02 15:04"
	}
	return t.Local().Format(layout)
}
