package offer

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"regexp"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/tbxark/offerwizard/form"
	"github.com/tbxark/offerwizard/types"
)

const (
	maxVerbatimDescription = 140
	minFragmentLength      = 10
	truncatedIncentive     = 80
	placeholderGuard       = "lorem ipsum"
	defaultKeyword         = "Special"
	defaultAction          = "Exclusive"
	defaultTitle           = "Special Offer"
)

var stopWords = map[string]bool{
	"with": true,
	"that": true,
	"this": true,
	"from": true,
	"your": true,
	"will": true,
	"have": true,
	"more": true,
}

// KeywordSelector picks the keyword from the eligible incentive tokens. It is
// never called with an empty slice.
type KeywordSelector func(candidates []string) string

// FirstKeyword is the default selector.
func FirstKeyword(candidates []string) string {
	return candidates[0]
}

// SeededKeywordSelector picks pseudo-randomly from a seeded source, so the
// same seed replays the same sequence of choices.
func SeededKeywordSelector(seed uint64) KeywordSelector {
	var mu sync.Mutex
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func(candidates []string) string {
		mu.Lock()
		defer mu.Unlock()
		return candidates[r.IntN(len(candidates))]
	}
}

// LocalGenerator builds offers from string templates. It needs no external
// service and never fails on complete data.
type LocalGenerator struct {
	selectKeyword KeywordSelector
}

type LocalOption func(*LocalGenerator)

func WithKeywordSelector(selector KeywordSelector) LocalOption {
	return func(g *LocalGenerator) {
		if selector != nil {
			g.selectKeyword = selector
		}
	}
}

func NewLocalGenerator(opts ...LocalOption) *LocalGenerator {
	g := &LocalGenerator{selectKeyword: FirstKeyword}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *LocalGenerator) Generate(ctx context.Context, data form.Data) ([]Option, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return g.Build(data), nil
}

// Build assembles the batch without validating data.
func (g *LocalGenerator) Build(data form.Data) []Option {
	in := newTemplateInput(data, g.keyword(data))

	fallbackTitle := in.firstClean(fmt.Sprintf("%s at %s - Special Offer", in.exhibitor, in.event), defaultTitle)
	fallbackDescription := withCallToAction(in.scrub(fmt.Sprintf("Exclusive offer from %s at %s", in.exhibitor, in.event)))
	fallbackSteps := in.scrubAll([]string{fmt.Sprintf("Visit %s at %s", in.exhibitor, in.event), "Show this offer to our staff"})

	titles := in.titles()
	for i, title := range titles {
		titles[i] = in.firstClean(title, fallbackTitle)
	}
	titles = dedupeTitles(titles)
	descriptions := in.descriptions()
	steps := in.redemptionSets()
	for i := range steps {
		steps[i] = in.scrubAll(steps[i])
	}

	options := make([]Option, 0, BatchSize)
	for i := 0; i < BatchSize; i++ {
		o := Option{
			Title:           fallbackTitle,
			Description:     fallbackDescription,
			RedemptionSteps: fallbackSteps,
			Stand:           strings.TrimSpace(data.Stand),
		}
		if i < len(titles) {
			o.Title = titles[i]
		}
		if o.Title == "" {
			o.Title = defaultTitle
		}
		if len(descriptions) > 0 {
			o.Description = descriptions[i%len(descriptions)]
		}
		if len(steps) > 0 {
			o.RedemptionSteps = steps[i%len(steps)]
		}
		options = append(options, o.Clone())
	}

	slog.Debug("local offers generated", "keyword", in.keyword, "branch", in.branch())
	return options
}

func (g *LocalGenerator) keyword(data form.Data) string {
	stand := strings.TrimSpace(data.Stand)
	candidates := keywordCandidates(data.IncentiveDescription)
	if stand != "" {
		candidates = slices.DeleteFunc(candidates, func(c string) bool { return containsFold(c, stand) })
	}
	if len(candidates) > 0 {
		if kw := strings.TrimSpace(g.selectKeyword(candidates)); kw != "" {
			return kw
		}
	}
	if action := data.FirstAction(); action != "" {
		return action
	}
	return defaultKeyword
}

func keywordCandidates(text string) []string {
	var out []string
	for _, token := range strings.Fields(text) {
		token = strings.TrimFunc(token, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if utf8.RuneCountInString(token) <= 3 || stopWords[strings.ToLower(token)] {
			continue
		}
		out = append(out, token)
	}
	return out
}

type templateInput struct {
	data      form.Data
	exhibitor string
	event     string
	goal      string
	action    string
	keyword   string
	incentive string
	stand     string
	standExpr *regexp.Regexp
}

func newTemplateInput(data form.Data, keyword string) templateInput {
	action := data.FirstAction()
	if action == "" {
		action = defaultAction
	}
	in := templateInput{
		data:      data,
		exhibitor: strings.TrimSpace(data.ExhibitorName),
		event:     strings.TrimSpace(data.EventName),
		goal:      strings.ToLower(data.Goal),
		action:    strings.TrimSpace(action),
		keyword:   capitalize(keyword),
		incentive: strings.TrimSpace(data.IncentiveDescription),
		stand:     strings.TrimSpace(data.Stand),
	}
	if in.stand != "" {
		in.standExpr = regexp.MustCompile("(?i)" + regexp.QuoteMeta(in.stand))
	}
	return in
}

// leaks reports whether text mentions the stand, which is shown apart from
// the offer copy.
func (in templateInput) leaks(text string) bool {
	return in.stand != "" && containsFold(text, in.stand)
}

// firstClean returns the first non-blank candidate that does not mention the
// stand. When every candidate does, the stand is cut out of the last one.
func (in templateInput) firstClean(candidates ...string) string {
	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) != "" && !in.leaks(candidate) {
			return candidate
		}
	}
	return in.scrub(candidates[len(candidates)-1])
}

func (in templateInput) scrub(text string) string {
	if in.standExpr == nil {
		return text
	}
	for in.standExpr.MatchString(text) {
		text = strings.Join(strings.Fields(in.standExpr.ReplaceAllString(text, " ")), " ")
	}
	return text
}

func (in templateInput) scrubAll(texts []string) []string {
	out := make([]string, 0, len(texts))
	for _, text := range texts {
		if text = in.scrub(text); text != "" {
			out = append(out, text)
		}
	}
	return out
}

func (in templateInput) branch() string {
	switch {
	case strings.Contains(in.goal, "leads"):
		return "leads"
	case strings.Contains(in.goal, "brand"):
		return "brand"
	default:
		return "default"
	}
}

func (in templateInput) titles() []string {
	var titles []string
	switch in.branch() {
	case "leads":
		titles = append(titles,
			fmt.Sprintf("Exclusive %s offer from %s", in.event, in.exhibitor),
			fmt.Sprintf("Limited-time %s opportunity at %s", in.action, in.event),
		)
	case "brand":
		titles = append(titles,
			fmt.Sprintf("Experience %s at %s", in.exhibitor, in.event),
			fmt.Sprintf("%s %s - %s Special", in.exhibitor, in.action, in.event),
		)
	default:
		titles = append(titles,
			fmt.Sprintf("%s %s at %s", in.exhibitor, in.action, in.event),
			fmt.Sprintf("Special %s %s by %s", in.event, in.action, in.exhibitor),
		)
	}
	return append(titles, fmt.Sprintf("%s %s Opportunity - %s", in.keyword, in.event, in.exhibitor))
}

func dedupeTitles(titles []string) []string {
	seen := make(map[string]bool, len(titles))
	out := make([]string, 0, len(titles))
	for i, title := range titles {
		for seen[title] {
			title = fmt.Sprintf("%s (Option %d)", title, i+1)
		}
		seen[title] = true
		out = append(out, title)
	}
	return out
}

func (in templateInput) descriptions() []string {
	action := in.actionDescription()
	generic := fmt.Sprintf("%s presents a special opportunity at %s", in.exhibitor, in.event)
	return []string{
		withCallToAction(in.firstClean(in.primaryDescription(), action, generic)),
		withCallToAction(in.firstClean(action, generic)),
		withCallToAction(in.firstClean(generic)),
	}
}

func (in templateInput) primaryDescription() string {
	if isPlaceholder(in.incentive) {
		return in.actionDescription()
	}
	if utf8.RuneCountInString(in.incentive) <= maxVerbatimDescription && !in.leaks(in.incentive) {
		return in.incentive
	}
	if fragment := shortestFragment(in.incentive); fragment != "" && !in.leaks(fragment) {
		return fragment
	}
	return in.actionDescription()
}

func (in templateInput) actionDescription() string {
	for _, action := range in.data.SecondaryActions {
		switch action {
		case types.ActionDemo:
			return fmt.Sprintf("See our product in action with a hands-on demo at %s", in.event)
		case types.ActionDiscount:
			return fmt.Sprintf("Unlock special pricing available only during %s", in.event)
		case types.ActionGiveaway:
			return fmt.Sprintf("Enter the %s giveaway at %s for a chance to win", in.exhibitor, in.event)
		case types.ActionFreeConsultation:
			return fmt.Sprintf("Get expert advice from the %s team at %s", in.exhibitor, in.event)
		case types.ActionExclusiveAccess:
			return fmt.Sprintf("Get early access to what %s is launching next", in.exhibitor)
		}
	}
	return truncate(in.incentive, truncatedIncentive)
}

func (in templateInput) redemptionSets() [][]string {
	return [][]string{
		{
			fmt.Sprintf("Visit %s at our booth", in.exhibitor),
			"Show the collected offer to our staff",
			"Complete a quick demo or consultation",
			"Receive your exclusive benefit immediately",
		},
		{
			fmt.Sprintf("Find us at the %s event space", in.event),
			fmt.Sprintf("Mention the offer code: %s", offerCode(in.event)),
			"Share your business card or contact info",
			"We'll set up your benefit within 24 hours",
		},
		{
			"Scan the QR code at our registration desk",
			fmt.Sprintf("Tell our team you're here for the %q offer", in.action),
			"Complete a brief preferences form",
			fmt.Sprintf("Get immediate access to your %s benefit", strings.ToLower(in.keyword)),
		},
	}
}

func isPlaceholder(text string) bool {
	return strings.Contains(strings.ToLower(text), placeholderGuard)
}

func shortestFragment(text string) string {
	fragments := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	best := ""
	for _, fragment := range fragments {
		fragment = strings.TrimSpace(fragment)
		n := utf8.RuneCountInString(fragment)
		if n <= minFragmentLength || isPlaceholder(fragment) {
			continue
		}
		if best == "" || n < utf8.RuneCountInString(best) {
			best = fragment
		}
	}
	return best
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}

func withCallToAction(sentence string) string {
	sentence = strings.TrimSpace(sentence)
	if sentence == "" {
		return CallToAction
	}
	last, _ := utf8.DecodeLastRuneInString(sentence)
	if last != '.' && last != '!' && last != '?' {
		sentence += "."
	}
	return sentence + " " + CallToAction
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + word[size:]
}

func offerCode(event string) string {
	var sb strings.Builder
	for _, r := range strings.ToUpper(event) {
		if sb.Len() >= 10 {
			break
		}
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		sb.WriteString("EVENT")
	}
	return sb.String() + "OFFER"
}
