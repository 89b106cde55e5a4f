// Package index implements an in-memory reverse index over a keyed
// collection of entities. Each index dimension maps a lower-cased token
// to the set of def names whose live data contains that token, which
// makes exact, substring and spatial lookups cheap at interactive
// scale. The engine never owns entity data; it only holds token to
// def-name associations.
package index

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/veldra/entmap/entmap"
)

// PositionError reports a malformed position string passed to a
// proximity search.
type PositionError struct {
	Input string
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("index: malformed position %q, want \"<x>x<y>x<z>\"", e.Input)
}

// tokenSet maps a lower-cased token to the def names it occurs in.
type tokenSet map[string]map[string]struct{}

func (ts tokenSet) add(token, defName string) {
	token = strings.ToLower(token)
	set, ok := ts[token]
	if !ok {
		set = make(map[string]struct{})
		ts[token] = set
	}
	set[defName] = struct{}{}
}

func (ts tokenSet) purge(defName string) {
	for _, set := range ts {
		delete(set, defName)
	}
}

// Engine holds one reverse index per dimension: keys, values, layers,
// classes, inherits and spawn positions.
//
// Index and Remove calls must be serialized by the caller; Find queries
// may run concurrently with each other but not with a mutation in
// progress.
type Engine struct {
	keys           tokenSet
	values         tokenSet
	layers         tokenSet
	classes        tokenSet
	inherits       tokenSet
	spawnPositions tokenSet

	uniqueDefs           map[string]struct{}
	uniqueLayers         map[string]struct{}
	uniqueClasses        map[string]struct{}
	uniqueInherits       map[string]struct{}
	uniqueSpawnPositions map[string]struct{}

	withoutLayers map[string]struct{}
}

// New creates an empty engine.
func New() *Engine {
	e := &Engine{}
	e.Reset()
	return e
}

// NewFromEntities creates an engine pre-populated from a keyed entity
// collection.
func NewFromEntities(keyed map[string]*entmap.Value) *Engine {
	e := New()
	e.Index(keyed)
	return e
}

// Reset empties every index dimension.
func (e *Engine) Reset() {
	e.keys = make(tokenSet)
	e.values = make(tokenSet)
	e.layers = make(tokenSet)
	e.classes = make(tokenSet)
	e.inherits = make(tokenSet)
	e.spawnPositions = make(tokenSet)

	e.uniqueDefs = make(map[string]struct{})
	e.uniqueLayers = make(map[string]struct{})
	e.uniqueClasses = make(map[string]struct{})
	e.uniqueInherits = make(map[string]struct{})
	e.uniqueSpawnPositions = make(map[string]struct{})

	e.withoutLayers = make(map[string]struct{})
}

// Index records every key and value of each entity, walking nested
// objects recursively.
func (e *Engine) Index(keyed map[string]*entmap.Value) {
	for defName, entity := range keyed {
		if !entmap.HasLayers(entity) {
			e.withoutLayers[defName] = struct{}{}
		}
		e.indexEntity(entity, defName)
	}
}

func (e *Engine) indexEntity(entity *entmap.Value, defName string) {
	for _, f := range entity.Fields() {
		e.keys.add(f.Key, defName)

		switch f.Value.Kind() {
		case entmap.KindLayers:
			if f.Key == "layers" {
				for _, layer := range f.Value.LayerNames() {
					e.uniqueLayers[layer] = struct{}{}
					e.layers.add(layer, defName)
				}
			}

		case entmap.KindObject:
			if name, ok := strings.CutPrefix(f.Key, "entityDef "); ok {
				defName = name
				e.uniqueDefs[name] = struct{}{}
				e.values.add(name, name)
			} else if f.Key == "spawnPosition" {
				if pos, ok := spawnPositionToken(f.Value); ok {
					e.uniqueSpawnPositions[pos] = struct{}{}
					e.spawnPositions.add(pos, defName)
				}
			}
			e.indexEntity(f.Value, defName)

		default:
			token := scalarToken(f.Value)
			if f.Key == "class" {
				e.uniqueClasses[token] = struct{}{}
				e.classes.add(token, defName)
			} else if f.Key == "inherit" {
				e.uniqueInherits[token] = struct{}{}
				e.inherits.add(token, defName)
			}
			e.values.add(token, defName)
		}
	}
}

// Remove purges every occurrence of each def name from every index
// dimension. Removing a def name that was never indexed is a no-op, so
// the call is idempotent.
func (e *Engine) Remove(defNames []string) {
	for _, defName := range defNames {
		delete(e.uniqueDefs, defName)
		delete(e.withoutLayers, defName)
		e.layers.purge(defName)
		e.classes.purge(defName)
		e.inherits.purge(defName)
		e.spawnPositions.purge(defName)
		e.keys.purge(defName)
		e.values.purge(defName)
	}
}

// ============================================================
// Queries
// ============================================================

// FindKey returns the def names of entities containing the given key
// token. With partial set, any index key containing token as a
// substring matches. Lookups are case-insensitive.
func (e *Engine) FindKey(token string, partial bool) []string {
	return findIn(e.keys, token, partial)
}

// FindValue returns the def names of entities containing the given
// value token.
func (e *Engine) FindValue(token string, partial bool) []string {
	return findIn(e.values, token, partial)
}

// FindLayer returns the def names of entities tagged with the given
// layer.
func (e *Engine) FindLayer(token string, partial bool) []string {
	return findIn(e.layers, token, partial)
}

// FindClass returns the def names of entities with the given class.
func (e *Engine) FindClass(token string, partial bool) []string {
	return findIn(e.classes, token, partial)
}

// FindInherit returns the def names of entities inheriting from the
// given base.
func (e *Engine) FindInherit(token string, partial bool) []string {
	return findIn(e.inherits, token, partial)
}

// FindSurroundingSpawnPositions returns the def names of entities whose
// spawn position lies strictly within maxDistance of the given
// "<x>x<y>x<z>" position.
func (e *Engine) FindSurroundingSpawnPositions(position string, maxDistance float64) ([]string, error) {
	x, y, z, err := parsePosition(position)
	if err != nil {
		return nil, err
	}

	neighbors := make(map[string]struct{})
	for token, defNames := range e.spawnPositions {
		cx, cy, cz, err := parsePosition(token)
		if err != nil {
			continue
		}
		dx, dy, dz := cx-x, cy-y, cz-z
		if math.Sqrt(dx*dx+dy*dy+dz*dz) < maxDistance {
			for defName := range defNames {
				neighbors[defName] = struct{}{}
			}
		}
	}
	return sortedSet(neighbors), nil
}

// ============================================================
// Distinct token sets, for populating filter UIs
// ============================================================

// UniqueDefs returns the distinct def names observed.
func (e *Engine) UniqueDefs() []string {
	return sortedSet(e.uniqueDefs)
}

// UniqueLayers returns the distinct layer names observed.
func (e *Engine) UniqueLayers() []string {
	return sortedSet(e.uniqueLayers)
}

// UniqueClasses returns the distinct class values observed.
func (e *Engine) UniqueClasses() []string {
	return sortedSet(e.uniqueClasses)
}

// UniqueInherits returns the distinct inherit values observed.
func (e *Engine) UniqueInherits() []string {
	return sortedSet(e.uniqueInherits)
}

// UniqueSpawnPositions returns the distinct spawn position tokens
// observed.
func (e *Engine) UniqueSpawnPositions() []string {
	return sortedSet(e.uniqueSpawnPositions)
}

// EntitiesWithoutLayers returns the def names of entities indexed with
// an empty or absent layers list.
func (e *Engine) EntitiesWithoutLayers() []string {
	return sortedSet(e.withoutLayers)
}

// ============================================================
// Helpers
// ============================================================

func findIn(ts tokenSet, token string, partial bool) []string {
	token = strings.ToLower(token)

	found := make(map[string]struct{})
	if partial {
		for key, defNames := range ts {
			if strings.Contains(key, token) {
				for defName := range defNames {
					found[defName] = struct{}{}
				}
			}
		}
	} else {
		for defName := range ts[token] {
			found[defName] = struct{}{}
		}
	}
	return sortedSet(found)
}

// scalarToken stringifies a scalar for index storage: booleans as
// true/false, null as null, numbers in their shortest form.
func scalarToken(v *entmap.Value) string {
	switch v.Kind() {
	case entmap.KindNull:
		return "null"
	case entmap.KindBool:
		if b, _ := v.AsBool(); b {
			return "true"
		}
		return "false"
	case entmap.KindInt:
		i, _ := v.AsInt()
		return strconv.FormatInt(i, 10)
	case entmap.KindFloat:
		f, _ := v.AsFloat()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case entmap.KindStr:
		s, _ := v.AsStr()
		return s
	default:
		return ""
	}
}

// spawnPositionToken composes the "<x>x<y>x<z>" token for a spawn
// position object holding exactly the keys x, y and z.
func spawnPositionToken(obj *entmap.Value) (string, bool) {
	fields := obj.Fields()
	if len(fields) != 3 {
		return "", false
	}
	seen := make(map[string]string, 3)
	for _, f := range fields {
		switch f.Key {
		case "x", "y", "z":
			seen[f.Key] = scalarToken(f.Value)
		default:
			return "", false
		}
	}
	if len(seen) != 3 {
		return "", false
	}
	return seen["x"] + "x" + seen["y"] + "x" + seen["z"], true
}

func parsePosition(position string) (x, y, z float64, err error) {
	parts := strings.Split(position, "x")
	if len(parts) != 3 {
		return 0, 0, 0, &PositionError{Input: position}
	}
	coords := make([]float64, 3)
	for i, part := range parts {
		coords[i], err = strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, 0, 0, &PositionError{Input: position}
		}
	}
	return coords[0], coords[1], coords[2], nil
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
