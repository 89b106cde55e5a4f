package entmap

import (
	"strings"
)

// DefKey returns the entity's "entityDef <name>" key. Exactly one such
// key is required; zero yields a *MissingDefinitionError and more than
// one is malformed.
func DefKey(entity *Value) (string, error) {
	found := ""
	for _, f := range entity.Fields() {
		if strings.HasPrefix(f.Key, "entityDef ") {
			if found != "" {
				return "", grammarErrf(Position{}, "entity has more than one entityDef key (%q and %q)", found, f.Key)
			}
			found = f.Key
		}
	}
	if found == "" {
		return "", &MissingDefinitionError{}
	}
	return found, nil
}

// DefName returns the entity's def name, the <name> part of its
// entityDef key.
func DefName(entity *Value) (string, error) {
	key, err := DefKey(entity)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.TrimPrefix(key, "entityDef ")), nil
}

// Class returns the value of the "class" key inside the entity's
// definition body, or "" when missing or not a scalar string.
func Class(entity *Value) string {
	return defScalar(entity, "class")
}

// Inherit returns the value of the "inherit" key inside the entity's
// definition body, or "" when missing or not a scalar string.
func Inherit(entity *Value) string {
	return defScalar(entity, "inherit")
}

func defScalar(entity *Value, key string) string {
	defKey, err := DefKey(entity)
	if err != nil {
		return ""
	}
	s, err := entity.Get(defKey).Get(key).AsStr()
	if err != nil {
		return ""
	}
	return s
}

// HasLayers reports whether the entity carries a non-empty layers
// list.
func HasLayers(entity *Value) bool {
	return len(entity.Get("layers").LayerNames()) > 0
}
