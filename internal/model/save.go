package model

import (
	"encoding/json"
	"math"
	"reflect"
	"time"
)

// Collection is an opaque identifier -> state mapping (buildings, upgrades, skins).
// The persistence layer never interprets the values.
type Collection map[string]any

// Clone returns a deep copy of the collection
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for k, v := range c {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = cloneValue(inner)
		}
		return m
	case Collection:
		return t.Clone()
	case []any:
		s := make([]any, len(t))
		for i, inner := range t {
			s[i] = cloneValue(inner)
		}
		return s
	default:
		return v
	}
}

// GameSave is the persisted unit shared by the remote and local stores
type GameSave struct {
	Potatoes        float64    `json:"potatoes"`
	AllTimePotatoes float64    `json:"allTimePotatoes"`
	Buildings       Collection `json:"buildings"`
	Upgrades        Collection `json:"upgrades"`
	Skins           Collection `json:"skins"`
	LastSaved       *time.Time `json:"lastSaved,omitempty"` // advisory only
}

// NewGameSave returns an empty save with zero counters and empty collections
func NewGameSave() GameSave {
	return GameSave{
		Buildings: Collection{},
		Upgrades:  Collection{},
		Skins:     Collection{},
	}
}

// Normalized fills absent collections with empty ones and clamps negative
// or non-finite counters to zero.
func (s GameSave) Normalized() GameSave {
	s.Potatoes = nonNegative(s.Potatoes)
	s.AllTimePotatoes = nonNegative(s.AllTimePotatoes)
	if s.Buildings == nil {
		s.Buildings = Collection{}
	}
	if s.Upgrades == nil {
		s.Upgrades = Collection{}
	}
	if s.Skins == nil {
		s.Skins = Collection{}
	}
	return s
}

// Clone returns a deep copy of the save
func (s GameSave) Clone() GameSave {
	out := s
	if s.Buildings != nil {
		out.Buildings = s.Buildings.Clone()
	}
	if s.Upgrades != nil {
		out.Upgrades = s.Upgrades.Clone()
	}
	if s.Skins != nil {
		out.Skins = s.Skins.Clone()
	}
	if s.LastSaved != nil {
		t := *s.LastSaved
		out.LastSaved = &t
	}
	return out
}

// Equal reports whether two saves carry the same progress. LastSaved is ignored.
func (s GameSave) Equal(other GameSave) bool {
	a, b := s.Normalized(), other.Normalized()
	if a.Potatoes != b.Potatoes || a.AllTimePotatoes != b.AllTimePotatoes {
		return false
	}
	return collectionsEqual(a.Buildings, b.Buildings) &&
		collectionsEqual(a.Upgrades, b.Upgrades) &&
		collectionsEqual(a.Skins, b.Skins)
}

func collectionsEqual(a, b Collection) bool {
	if len(a) != len(b) {
		return false
	}
	// JSON form is the canonical comparison since values are opaque
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return reflect.DeepEqual(a, b)
	}
	return string(ja) == string(jb)
}

// DecodeGameSave parses a serialized save. Any parse failure is reported as
// ErrCorruptSave so callers can treat the source as empty.
func DecodeGameSave(raw []byte) (GameSave, error) {
	var save GameSave
	if err := json.Unmarshal(raw, &save); err != nil {
		return GameSave{}, &KindError{Kind: KindCorruptLocalData, Err: ErrCorruptSave, Detail: err.Error()}
	}
	return save, nil
}

// Encode serializes the save to its wire/storage form
func (s GameSave) Encode() ([]byte, error) {
	return json.Marshal(s)
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
