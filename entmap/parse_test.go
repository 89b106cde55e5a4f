package entmap

import (
	"errors"
	"testing"
)

// ============================================================
// Header Parser Tests
// ============================================================

func TestParseHeader_Defaults(t *testing.T) {
	for _, input := range []string{"", "   \n\t  \n"} {
		version, hierarchyVersion, props, err := ParseHeader(input)
		if err != nil {
			t.Fatalf("ParseHeader(%q) failed: %v", input, err)
		}
		if version != -1 || hierarchyVersion != -1 || len(props) != 0 {
			t.Errorf("ParseHeader(%q) = (%d, %d, %v), want (-1, -1, [])",
				input, version, hierarchyVersion, props)
		}
	}
}

func TestParseHeader_Full(t *testing.T) {
	input := `Version 7
HierarchyVersion 1
properties{
	"mapName" = "intro"
	"author" = "level_team"
}`
	version, hierarchyVersion, props, err := ParseHeader(input)
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	if version != 7 {
		t.Errorf("version = %d, want 7", version)
	}
	if hierarchyVersion != 1 {
		t.Errorf("hierarchyVersion = %d, want 1", hierarchyVersion)
	}
	if len(props) != 2 {
		t.Fatalf("got %d properties, want 2", len(props))
	}
	if props[0] != (Property{Key: "mapName", Value: "intro"}) {
		t.Errorf("props[0] = %v", props[0])
	}
	if props[1] != (Property{Key: "author", Value: "level_team"}) {
		t.Errorf("props[1] = %v", props[1])
	}
}

func TestParseHeader_PartialSections(t *testing.T) {
	version, hierarchyVersion, props, err := ParseHeader("Version 3\n")
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	if version != 3 || hierarchyVersion != -1 || len(props) != 0 {
		t.Errorf("got (%d, %d, %v), want (3, -1, [])", version, hierarchyVersion, props)
	}
}

func TestParseHeader_Malformed(t *testing.T) {
	tests := []string{
		"Version banana\n",
		"Version 7 trailing_junk\n",
		`properties{ "key" = }`,
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, _, _, err := ParseHeader(input)
			var ge *GrammarError
			if !errors.As(err, &ge) {
				t.Errorf("ParseHeader(%q) err = %v, want *GrammarError", input, err)
			}
		})
	}
}

// ============================================================
// Entity Parser Tests
// ============================================================

const basicEntity = `entity{
	layers{ "layer_one" "layer_two" }
	someFlag = true;
	nested = { a = 1; b = "x"; };
	entityDef my_entity_0{
		class = "idEntity";
		inherit = "base";
		item[0] = { x = 1; };
		item[1] = { x = 2; };
		num = 2;
	}
}`

func TestParseEntity_Basic(t *testing.T) {
	entity, err := ParseEntity(basicEntity)
	if err != nil {
		t.Fatalf("ParseEntity failed: %v", err)
	}

	layers, err := entity.Get("layers").AsLayers()
	if err != nil {
		t.Fatalf("layers: %v", err)
	}
	if len(layers) != 2 || layers[0] != "layer_one" || layers[1] != "layer_two" {
		t.Errorf("layers = %v", layers)
	}

	flag, err := entity.Get("someFlag").AsBool()
	if err != nil || !flag {
		t.Errorf("someFlag = (%v, %v), want true", flag, err)
	}

	nested := entity.Get("nested")
	if nested.Kind() != KindObject {
		t.Fatalf("nested kind = %s", nested.Kind())
	}
	if a, _ := nested.Get("a").AsInt(); a != 1 {
		t.Errorf("nested.a = %d, want 1", a)
	}
	if b, _ := nested.Get("b").AsStr(); b != "x" {
		t.Errorf("nested.b = %q, want x", b)
	}

	def := entity.Get("entityDef my_entity_0")
	if def == nil {
		t.Fatal("entityDef my_entity_0 missing")
	}
	if class, _ := def.Get("class").AsStr(); class != "idEntity" {
		t.Errorf("class = %q", class)
	}
	if num, _ := def.Get("num").AsInt(); num != 2 {
		t.Errorf("num = %d, want 2", num)
	}
}

func TestParseEntity_FieldOrder(t *testing.T) {
	entity, err := ParseEntity(`entity{
		zulu = 1;
		alpha = 2;
		mike = 3;
		entityDef e0{ class = "C"; }
	}`)
	if err != nil {
		t.Fatalf("ParseEntity failed: %v", err)
	}

	want := []string{"layers", "zulu", "alpha", "mike", "entityDef e0"}
	fields := entity.Fields()
	if len(fields) != len(want) {
		t.Fatalf("got %d fields, want %d", len(fields), len(want))
	}
	for i, key := range want {
		if fields[i].Key != key {
			t.Errorf("field %d = %q, want %q", i, fields[i].Key, key)
		}
	}
}

func TestParseEntity_LayersAlwaysPresent(t *testing.T) {
	entity, err := ParseEntity(`entity{ entityDef e0{ class = "C"; } }`)
	if err != nil {
		t.Fatalf("ParseEntity failed: %v", err)
	}
	layers := entity.Get("layers")
	if layers.Kind() != KindLayers {
		t.Fatalf("layers kind = %s", layers.Kind())
	}
	if layers.Len() != 0 {
		t.Errorf("layers = %v, want empty", layers.LayerNames())
	}
	if entity.Fields()[0].Key != "layers" {
		t.Errorf("first field = %q, want layers", entity.Fields()[0].Key)
	}
}

func TestParseEntity_NumericLiterals(t *testing.T) {
	tests := []struct {
		literal string
		want    *Value
	}{
		{"3", Int(3)},
		{"3.0", Int(3)}, // integral floats normalize to integers
		{"3.", Int(3)},
		{"3.5", Float(3.5)},
		{"-1.2e-07", Float(-1.2e-07)},
		{"2e3", Int(2000)},
		{"-42", Int(-42)},
	}

	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			entity, err := ParseEntity(`entity{ v = ` + tt.literal + `; entityDef e0{ class = "C"; } }`)
			if err != nil {
				t.Fatalf("ParseEntity failed: %v", err)
			}
			got := entity.Get("v")
			if !Equal(got, tt.want) {
				t.Errorf("v = %s(%v), want %s", got.Kind(), got, tt.want.Kind())
			}
		})
	}
}

func TestParseEntity_NullAndBoolLiterals(t *testing.T) {
	entity, err := ParseEntity(`entity{
		nothing = NULL;
		yes = true;
		no = false;
		entityDef e0{ class = "C"; }
	}`)
	if err != nil {
		t.Fatalf("ParseEntity failed: %v", err)
	}
	if !entity.Get("nothing").IsNull() {
		t.Error("nothing should be null")
	}
	if v, _ := entity.Get("yes").AsBool(); !v {
		t.Error("yes should be true")
	}
	if v, _ := entity.Get("no").AsBool(); v {
		t.Error("no should be false")
	}
}

func TestParseEntity_CommentErasure(t *testing.T) {
	plain := `entity{
	layers{ "a" }
	flag = true;
	entityDef e0{ class = "C"; }
}`
	commented := `entity{ // trailing comment
	/* block
	   comment */
	layers{ "a" /* inline */ }
	flag /* odd spot */ = true; // another
	entityDef e0{ class = "C"; }
}`
	a, err := ParseEntity(plain)
	if err != nil {
		t.Fatalf("plain: %v", err)
	}
	b, err := ParseEntity(commented)
	if err != nil {
		t.Fatalf("commented: %v", err)
	}
	if !Equal(a, b) {
		t.Error("comment injection changed the parse result")
	}
}

func TestParseEntity_WhitespaceInsensitive(t *testing.T) {
	tight := `entity{layers{"a"}flag=true;entityDef e0{class="C";}}`
	loose := "entity  {\n  layers  {  \"a\"  }\n  flag  =  true  ;\n  entityDef   e0  {  class = \"C\" ;  }\n}"
	a, err := ParseEntity(tight)
	if err != nil {
		t.Fatalf("tight: %v", err)
	}
	b, err := ParseEntity(loose)
	if err != nil {
		t.Fatalf("loose: %v", err)
	}
	if !Equal(a, b) {
		t.Error("whitespace placement changed the parse result")
	}
}

func TestParseEntity_MissingEntityDef(t *testing.T) {
	_, err := ParseEntity(`entity{ flag = true; }`)
	var me *MissingDefinitionError
	if !errors.As(err, &me) {
		t.Errorf("err = %v, want *MissingDefinitionError", err)
	}
}

func TestParseEntity_Malformed(t *testing.T) {
	tests := []string{
		``,
		`entity{ flag = ; entityDef e0{ class = "C"; } }`,
		`entity{ flag = true entityDef e0{ class = "C"; } }`, // missing semicolon
		`entity{ entityDef e0{ class = "C"; } trailing = 1; }`,
		`entity{ entityDef e0{ class = "C"; } entityDef e1{ class = "D"; } }`,
		`entity{ entityDef e0{ class = "C"; }`, // unclosed
		`entity{ entityDef e0{ class = "C"; } } extra`,
		`entity{ v = @; entityDef e0{ class = "C"; } }`, // stray character
		`entity{ name = "no closing quote`,
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := ParseEntity(input)
			var ge *GrammarError
			if !errors.As(err, &ge) {
				t.Errorf("err = %v, want *GrammarError", err)
			}
		})
	}
}
