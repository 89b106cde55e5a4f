package entmap

import (
	"errors"
	"testing"
)

func TestDefNameClassInherit(t *testing.T) {
	entity, err := ParseEntity(basicEntity)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	name, err := DefName(entity)
	if err != nil {
		t.Fatalf("DefName: %v", err)
	}
	if name != "my_entity_0" {
		t.Errorf("DefName = %q, want my_entity_0", name)
	}
	if class := Class(entity); class != "idEntity" {
		t.Errorf("Class = %q, want idEntity", class)
	}
	if inherit := Inherit(entity); inherit != "base" {
		t.Errorf("Inherit = %q, want base", inherit)
	}
}

func TestClassInherit_MissingOrNonScalar(t *testing.T) {
	entity, err := ParseEntity(`entity{ entityDef plain{ flag = true; } }`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if class := Class(entity); class != "" {
		t.Errorf("Class = %q, want empty", class)
	}
	if inherit := Inherit(entity); inherit != "" {
		t.Errorf("Inherit = %q, want empty", inherit)
	}

	// Object-valued class is treated as absent.
	entity, err = ParseEntity(`entity{ entityDef odd{ class = { sub = 1; }; } }`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if class := Class(entity); class != "" {
		t.Errorf("object-valued Class = %q, want empty", class)
	}
}

func TestDefKey_Missing(t *testing.T) {
	entity := Object(FieldOf("layers", Layers()))
	_, err := DefKey(entity)
	var me *MissingDefinitionError
	if !errors.As(err, &me) {
		t.Errorf("err = %v, want *MissingDefinitionError", err)
	}
}

func TestDefKey_MultipleIsMalformed(t *testing.T) {
	entity := Object(
		FieldOf("entityDef a", Object()),
		FieldOf("entityDef b", Object()),
	)
	_, err := DefKey(entity)
	var ge *GrammarError
	if !errors.As(err, &ge) {
		t.Errorf("err = %v, want *GrammarError", err)
	}
}

func TestHasLayers(t *testing.T) {
	with, err := ParseEntity(`entity{ layers{ "a" } entityDef e0{ class = "C"; } }`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	without, err := ParseEntity(`entity{ entityDef e1{ class = "C"; } }`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if !HasLayers(with) {
		t.Error("entity with layers reported as layerless")
	}
	if HasLayers(without) {
		t.Error("entity without layers reported as layered")
	}
}
