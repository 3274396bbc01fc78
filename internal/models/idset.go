package models

import "encoding/json"

// IDSet is an insertion-ordered set of ids stored as a JSON array.
type IDSet []string

func (s IDSet) Has(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Add returns the set with id appended when absent. The receiver is never
// modified in place.
func (s IDSet) Add(id string) IDSet {
	if s.Has(id) {
		return s
	}
	out := make(IDSet, len(s), len(s)+1)
	copy(out, s)
	return append(out, id)
}

// Remove returns the set without id.
func (s IDSet) Remove(id string) IDSet {
	out := make(IDSet, 0, len(s))
	for _, v := range s {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (s IDSet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

// UnmarshalJSON drops duplicate entries so a hand-edited document cannot
// introduce repeated edges.
func (s *IDSet) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(IDSet, 0, len(raw))
	for _, id := range raw {
		out = out.Add(id)
	}
	*s = out
	return nil
}
