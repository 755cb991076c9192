package hint

import (
	"errors"
	"sort"
	"strings"

	"pkt.systems/vshell/schema"
)

// Region is an addressable area of a composed frame.
type Region struct {
	Row    int
	Col    int
	Target schema.HintTarget
}

// Hint is a region with its assigned code.
type Hint struct {
	Code   string
	Row    int
	Col    int
	Target schema.HintTarget
}

// Set is the hint assignment for one render pass. It is rebuilt every frame
// and never outlives the frame it was computed for.
type Set struct {
	hints  []Hint
	byCode map[string]int
	length int
}

// Assign orders regions top-to-bottom then left-to-right and gives each a
// unique code from alphabet. Regions sharing a cell keep their input order.
func Assign(alphabet Alphabet, regions []Region) *Set {
	ordered := append([]Region(nil), regions...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Row != ordered[j].Row {
			return ordered[i].Row < ordered[j].Row
		}
		return ordered[i].Col < ordered[j].Col
	})
	codes := alphabet.Codes(len(ordered))
	set := &Set{
		hints:  make([]Hint, len(ordered)),
		byCode: make(map[string]int, len(ordered)),
	}
	for i, region := range ordered {
		set.hints[i] = Hint{Code: codes[i], Row: region.Row, Col: region.Col, Target: region.Target}
		set.byCode[codes[i]] = i
	}
	if len(codes) > 0 {
		set.length = len([]rune(codes[0]))
	}
	return set
}

// Hints returns the assigned hints in code order.
func (s *Set) Hints() []Hint {
	if s == nil {
		return nil
	}
	return s.hints
}

// Len returns the number of hints.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.hints)
}

// CodeLength returns the length shared by every code in the set.
func (s *Set) CodeLength() int {
	if s == nil {
		return 0
	}
	return s.length
}

// Matching returns hints whose code starts with prefix.
func (s *Set) Matching(prefix string) []Hint {
	if s == nil {
		return nil
	}
	if prefix == "" {
		return s.hints
	}
	var out []Hint
	for _, h := range s.hints {
		if strings.HasPrefix(h.Code, prefix) {
			out = append(out, h)
		}
	}
	return out
}

// Lookup returns the target recorded for code in this pass.
func (s *Set) Lookup(code string) (schema.HintTarget, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if s != nil {
		if idx, ok := s.byCode[code]; ok {
			return s.hints[idx].Target, nil
		}
	}
	return schema.HintTarget{}, &schema.UnknownHintError{Code: code}
}

// Activate looks up code and re-validates its target against live state.
func (s *Set) Activate(code string, live State) (schema.HintTarget, error) {
	target, err := s.Lookup(code)
	if err != nil {
		return target, err
	}
	resolved, err := Validate(target, live)
	if err != nil {
		var unknown *schema.UnknownHintError
		if errors.As(err, &unknown) {
			unknown.Code = code
		}
		return schema.HintTarget{}, err
	}
	return resolved, nil
}
