package beans

import (
	"reflect"
	"testing"
)

type address struct {
	City string
}

type Base struct {
	ID   int
	Name string
}

type Person struct {
	Base
	Name  string `json:"name" validate:"required"`
	Age   int
	Email string
	priv  string
	Tags  map[string]string
}

func TestPropertiesFlattensEmbedded(t *testing.T) {
	props, err := Properties(Person{})
	if err != nil {
		t.Fatalf("Properties() error = %v", err)
	}

	byName := make(map[string]Property, len(props))
	for _, p := range props {
		byName[p.Name] = p
	}

	for _, want := range []string{"ID", "Name", "Age", "Email", "Tags"} {
		if _, ok := byName[want]; !ok {
			t.Errorf("property %q missing", want)
		}
	}
	if _, ok := byName["priv"]; ok {
		t.Error("unexported field listed as property")
	}
	if _, ok := byName["Base"]; ok {
		t.Error("embedded struct itself listed as property")
	}

	// Name on Person shadows Base.Name.
	if name := byName["Name"]; len(name.Index) != 1 {
		t.Errorf("Name property index = %v, want the shadowing outer field", name.Index)
	}
	if name := byName["Name"]; name.Tag.Get("json") != "name" {
		t.Errorf("Name tag json = %q, want name", name.Tag.Get("json"))
	}
}

type Record struct {
	*Base
	Note string
}

func TestPropertiesEmbeddedPointer(t *testing.T) {
	// Embedding *Base must yield the same property list as embedding
	// Base: promoted fields only, no "Base" container entry.
	props, err := Properties(Record{})
	if err != nil {
		t.Fatalf("Properties() error = %v", err)
	}

	byName := make(map[string]Property, len(props))
	for _, p := range props {
		byName[p.Name] = p
	}

	for _, want := range []string{"ID", "Name", "Note"} {
		if _, ok := byName[want]; !ok {
			t.Errorf("property %q missing", want)
		}
	}
	if _, ok := byName["Base"]; ok {
		t.Error("embedded struct pointer itself listed as property")
	}

	// Reading through a nil embedded pointer fails descriptively
	// rather than panicking.
	if _, err := Get(Record{}, "ID"); err == nil {
		t.Error("Get(ID) through nil embedded pointer, want error")
	}
	got, err := Get(Record{Base: &Base{ID: 9}}, "ID")
	if err != nil {
		t.Fatalf("Get(ID) error = %v", err)
	}
	if got != 9 {
		t.Errorf("Get(ID) = %v, want 9", got)
	}
}

func TestPropertiesPointerAndErrors(t *testing.T) {
	if _, err := Properties(&Person{}); err != nil {
		t.Errorf("Properties(ptr) error = %v", err)
	}
	if _, err := Properties(nil); err == nil {
		t.Error("Properties(nil), want error")
	}
	if _, err := Properties(42); err == nil {
		t.Error("Properties(int), want error")
	}
	var p *Person
	if _, err := Properties(p); err == nil {
		t.Error("Properties(nil *Person), want error")
	}
}

func TestGet(t *testing.T) {
	p := Person{Age: 30}
	p.ID = 7

	got, err := Get(p, "Age")
	if err != nil {
		t.Fatalf("Get(Age) error = %v", err)
	}
	if got != 30 {
		t.Errorf("Get(Age) = %v, want 30", got)
	}

	// Promoted field through the embedded struct.
	got, err = Get(&p, "ID")
	if err != nil {
		t.Fatalf("Get(ID) error = %v", err)
	}
	if got != 7 {
		t.Errorf("Get(ID) = %v, want 7", got)
	}

	if _, err := Get(p, "Missing"); err == nil {
		t.Error("Get(Missing) = nil error, want error")
	}
}

func TestSet(t *testing.T) {
	var p Person

	if err := Set(&p, "Age", 40); err != nil {
		t.Fatalf("Set(Age) error = %v", err)
	}
	if p.Age != 40 {
		t.Errorf("Age = %d, want 40", p.Age)
	}

	// Convertible value.
	if err := Set(&p, "Age", int64(41)); err != nil {
		t.Fatalf("Set(Age, int64) error = %v", err)
	}
	if p.Age != 41 {
		t.Errorf("Age = %d, want 41", p.Age)
	}

	// Nil for a nilable property.
	p.Tags = map[string]string{"k": "v"}
	if err := Set(&p, "Tags", nil); err != nil {
		t.Fatalf("Set(Tags, nil) error = %v", err)
	}
	if p.Tags != nil {
		t.Error("Tags not cleared")
	}

	if err := Set(&p, "Age", nil); err == nil {
		t.Error("Set(Age, nil), want error")
	}
	if err := Set(&p, "Age", "not a number"); err == nil {
		t.Error("Set(Age, string), want error")
	}
	if err := Set(p, "Age", 1); err == nil {
		t.Error("Set on non-pointer, want error")
	}
	if err := Set(&p, "Missing", 1); err == nil {
		t.Error("Set(Missing), want error")
	}
}

func TestLookupNormalized(t *testing.T) {
	p, ok := Lookup(Person{}, "email")
	if !ok || p.Name != "Email" {
		t.Errorf("Lookup(email) = %+v, %v, want Email property", p, ok)
	}

	if _, ok := Lookup(Person{}, "nothere"); ok {
		t.Error("Lookup(nothere) = true, want false")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Email", "email"},
		{"email", "email"},
		{"ID", "iD"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPropertyTypes(t *testing.T) {
	props, err := Properties(address{})
	if err != nil {
		t.Fatalf("Properties() error = %v", err)
	}
	if len(props) != 1 || props[0].Type != reflect.TypeOf("") {
		t.Errorf("Properties(address) = %+v", props)
	}
}
