package models

import (
	"encoding/json"
	"testing"

	"github.com/mesa-next/internal/config"
	"github.com/mesa-next/internal/constants"
)

func TestMoneyKeepsPrecisionUntilRender(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`1.005`), &m); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if m.Decimal.String() != "1.005" {
		t.Fatalf("internal precision lost: %s", m.Decimal.String())
	}
	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `"1.01"` {
		t.Fatalf("render want \"1.01\" got %s", out)
	}
}

func TestMoneyAcceptsStringAndNull(t *testing.T) {
	var payload struct {
		A Money  `json:"a"`
		B *Money `json:"b"`
		C Money  `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":"12.50","b":null,"c":null}`), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if payload.A.String() != "12.50" {
		t.Fatalf("string amount want 12.50 got %s", payload.A)
	}
	if payload.B != nil {
		t.Fatalf("null pointer amount should stay nil")
	}
	if !payload.C.IsZero() {
		t.Fatalf("null amount should be zero")
	}
}

func TestProductHelpers(t *testing.T) {
	p := &Product{
		Status:     constants.ProductStatusActive,
		Variations: []Variation{{ID: "v1", Name: "Personal", Price: MustMoney("10")}},
		Ingredients: []Ingredient{
			{ID: "i1", Name: "Queso"},
			{ID: "i2", Name: "Tocineta", Optional: true},
		},
	}
	if !p.IsOrderable() {
		t.Fatalf("active product with variation should be orderable")
	}
	if _, ok := p.FindVariation("v2"); ok {
		t.Fatalf("unknown variation should not be found")
	}
	if v, ok := p.FindVariation("v1"); !ok || v.Name != "Personal" {
		t.Fatalf("variation v1 should be found")
	}
	ids := p.DefaultIngredientIDs()
	if len(ids) != 1 || ids[0] != "i1" {
		t.Fatalf("default ingredients want [i1] got %v", ids)
	}
	p.Status = constants.ProductStatusOutOfStock
	if p.IsOrderable() {
		t.Fatalf("out of stock product should not be orderable")
	}
}

func TestRestaurantMatchesIdentifier(t *testing.T) {
	r := &Restaurant{ID: "rest-1", Slug: "la-arepa", Domain: "menu.laarepa.co"}
	for _, id := range []string{"rest-1", "la-arepa", "MENU.laarepa.co", " la-arepa "} {
		if !r.MatchesIdentifier(id) {
			t.Fatalf("identifier %q should match", id)
		}
	}
	if r.MatchesIdentifier("") || r.MatchesIdentifier("otro") {
		t.Fatalf("empty or foreign identifier should not match")
	}
}

func TestDialectorByDriverName(t *testing.T) {
	cases := map[string]string{"": "sqlite", "SQLite": "sqlite", "postgresql": "postgres", "mariadb": "mysql"}
	for driver, want := range cases {
		d, err := Dialector(driver, "dsn")
		if err != nil {
			t.Fatalf("driver %q failed: %v", driver, err)
		}
		if d.Name() != want {
			t.Fatalf("driver %q want %s got %s", driver, want, d.Name())
		}
	}
	if _, err := Dialector("oracle", "dsn"); err == nil {
		t.Fatalf("unknown driver should fail")
	}
}

func TestInitDBMigratesCollections(t *testing.T) {
	if err := InitDB(config.DatabaseConfig{Driver: "sqlite", DSN: "file:models_init?mode=memory&cache=shared"}); err != nil {
		t.Fatalf("init db failed: %v", err)
	}
	if !DB.Migrator().HasTable(&CollectionRecord{}) {
		t.Fatalf("collections table should exist")
	}
}
