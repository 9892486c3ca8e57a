package hashroute

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/grafana/regexp"
)

// Pattern represents a compiled route template used for matching fragments.
// Templates are made of literal text, named parameters (':id'), splats
// ('*path') and optional groups ('(/:page)'). Use NewPattern to create
// patterns from strings.
type Pattern struct {
	str    string
	nodes  []node
	slots  []Slot
	regExp *regexp.Regexp
}

// NewPattern creates a pattern from a route template. Supported syntax:
// literal text (matched verbatim), named parameters (':name', one segment
// without '/' or '?'), splats ('*name', may span '/') and optional groups
// ('(...)'). A ':' or '*' that isn't followed by a name is literal text.
// Examples: 'users/:id', 'files/*path', 'search(/:query)(/p:page)'.
// Returns an error wrapping ErrMalformedTemplate if the groups are unbalanced.
func NewPattern(template string) (*Pattern, error) {
	nodes, err := parsePatternNodes(template)
	if err != nil {
		return nil, err
	}

	patternRegExp, slots, err := regExpFromNodes(nodes)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %s", ErrMalformedTemplate, template, err.Error())
	}

	return &Pattern{
		str:    template,
		nodes:  nodes,
		slots:  slots,
		regExp: patternRegExp,
	}, nil
}

// MustPattern is like NewPattern but panics if the template is malformed.
func MustPattern(template string) *Pattern {
	pattern, err := NewPattern(template)
	if err != nil {
		panic(err)
	}
	return pattern
}

// Match compares a fragment to the pattern. The whole fragment must match,
// optionally followed by a '?query' suffix. If it matches, the captured
// params are returned in slot order and the second return value is true.
//
// Every value but the query is percent-decoded. The query is returned raw.
// A slot that matched no text is not Present.
func (p *Pattern) Match(fragment string) (Params, bool) {
	matchIndices := p.regExp.FindStringSubmatchIndex(fragment)
	if len(matchIndices) == 0 {
		return nil, false
	}

	params := make(Params, len(p.slots))
	for i, slot := range p.slots {
		params[i].Name = slot.Name
		params[i].Kind = slot.Kind

		startIdx := matchIndices[(i+1)*2]
		endIdx := matchIndices[(i+1)*2+1]
		if startIdx < 0 || endIdx <= startIdx {
			continue
		}

		value := fragment[startIdx:endIdx]
		if slot.Kind != SlotQuery {
			if decoded, err := url.PathUnescape(value); err == nil {
				value = decoded
			}
		}
		params[i].Value = value
		params[i].Present = true
	}

	return params, true
}

// Slots returns the capture slots of the pattern in order. The last slot is
// always the query slot.
func (p *Pattern) Slots() []Slot {
	slots := make([]Slot, len(p.slots))
	copy(slots, p.slots)
	return slots
}

// Path creates a fragment from the pattern by replacing parameters with the
// provided values. Named values are escaped so that they match a single
// segment again. Optional groups are only included if all of their
// parameters are provided. If a required parameter is missing, an error
// wrapping ErrMissingParam is returned.
func (p *Pattern) Path(values map[string]string) (string, error) {
	var builder strings.Builder
	if err := renderNodes(p.nodes, values, &builder); err != nil {
		return "", err
	}
	return builder.String(), nil
}

// String returns the route template the pattern was created from.
func (p *Pattern) String() string {
	return p.str
}

type nodeKind int

const (
	literalNode nodeKind = iota
	namedNode
	splatNode
	optionalNode
)

type node struct {
	kind     nodeKind
	text     string
	children []node
}

type patternParser struct {
	groups  [][]node
	literal []rune
}

func (pp *patternParser) push(n node) {
	top := len(pp.groups) - 1
	pp.groups[top] = append(pp.groups[top], n)
}

func (pp *patternParser) flushLiteral() {
	if len(pp.literal) == 0 {
		return
	}
	pp.push(node{kind: literalNode, text: string(pp.literal)})
	pp.literal = pp.literal[:0]
}

func parsePatternNodes(template string) ([]node, error) {
	templateRunes := []rune(template)
	templateRunesLen := len(templateRunes)

	pp := &patternParser{groups: [][]node{{}}}
	for i := 0; i < templateRunesLen; i += 1 {
		currentRune := templateRunes[i]

		switch currentRune {
		case '(':
			pp.flushLiteral()
			pp.groups = append(pp.groups, []node{})

		case ')':
			if len(pp.groups) == 1 {
				return nil, fmt.Errorf("%w: %q: unexpected ')' at offset %d", ErrMalformedTemplate, template, i)
			}
			pp.flushLiteral()
			top := len(pp.groups) - 1
			group := pp.groups[top]
			pp.groups = pp.groups[:top]
			pp.push(node{kind: optionalNode, children: group})

		case ':', '*':
			end := i + 1
			for end < templateRunesLen && isWordRune(templateRunes[end]) {
				end += 1
			}
			if end == i+1 {
				pp.literal = append(pp.literal, currentRune)
				continue
			}
			pp.flushLiteral()
			kind := namedNode
			if currentRune == '*' {
				kind = splatNode
			}
			pp.push(node{kind: kind, text: string(templateRunes[i+1 : end])})
			i = end - 1

		default:
			pp.literal = append(pp.literal, currentRune)
		}
	}

	if len(pp.groups) != 1 {
		return nil, fmt.Errorf("%w: %q: unclosed '('", ErrMalformedTemplate, template)
	}
	pp.flushLiteral()

	return pp.groups[0], nil
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// regExpFromNodes converts parsed pattern nodes to a regular expression
// anchored to the whole fragment, with a trailing optional query capture.
func regExpFromNodes(nodes []node) (*regexp.Regexp, []Slot, error) {
	var builder strings.Builder
	slots := []Slot{}

	builder.WriteString("^")
	writeNodes(nodes, &builder, &slots)
	builder.WriteString(`(?:\?([\s\S]*))?$`)
	slots = append(slots, Slot{Kind: SlotQuery})

	regExp, err := regexp.Compile(builder.String())
	if err != nil {
		return nil, nil, err
	}

	return regExp, slots, nil
}

func writeNodes(nodes []node, builder *strings.Builder, slots *[]Slot) {
	for _, currentNode := range nodes {
		switch currentNode.kind {
		case literalNode:
			builder.WriteString(regexp.QuoteMeta(currentNode.text))
		case namedNode:
			builder.WriteString(`([^/?]+)`)
			*slots = append(*slots, Slot{Name: currentNode.text, Kind: SlotNamed})
		case splatNode:
			builder.WriteString(`([^?]*?)`)
			*slots = append(*slots, Slot{Name: currentNode.text, Kind: SlotSplat})
		case optionalNode:
			builder.WriteString("(?:")
			writeNodes(currentNode.children, builder, slots)
			builder.WriteString(")?")
		}
	}
}

func renderNodes(nodes []node, values map[string]string, builder *strings.Builder) error {
	for _, currentNode := range nodes {
		switch currentNode.kind {
		case literalNode:
			builder.WriteString(currentNode.text)

		case namedNode:
			value, ok := values[currentNode.text]
			if !ok || value == "" {
				return fmt.Errorf("%w: %s", ErrMissingParam, currentNode.text)
			}
			builder.WriteString(url.PathEscape(value))

		case splatNode:
			value, ok := values[currentNode.text]
			if !ok {
				return fmt.Errorf("%w: %s", ErrMissingParam, currentNode.text)
			}
			segments := strings.Split(value, "/")
			for i, segment := range segments {
				segments[i] = url.PathEscape(segment)
			}
			builder.WriteString(strings.Join(segments, "/"))

		case optionalNode:
			if !hasParamNodes(currentNode.children) {
				continue
			}
			var groupBuilder strings.Builder
			if err := renderNodes(currentNode.children, values, &groupBuilder); err != nil {
				if errors.Is(err, ErrMissingParam) {
					continue
				}
				return err
			}
			builder.WriteString(groupBuilder.String())
		}
	}
	return nil
}

func hasParamNodes(nodes []node) bool {
	for _, currentNode := range nodes {
		switch currentNode.kind {
		case namedNode, splatNode:
			return true
		case optionalNode:
			if hasParamNodes(currentNode.children) {
				return true
			}
		}
	}
	return false
}
