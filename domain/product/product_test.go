package product_test

import (
	"testing"

	"github.com/artpar/digigate/domain/product"
	"gopkg.in/yaml.v3"
)

const productYAML = `productid: DATA10
name: Data 10GB
provider: digipos
type: data
is_active: true
api_path: /v1/purchase
method: POST
json: 1
required_params:
  username: modules.username
  to: request.dest
  trxid: request.trxid
  channel: api
  retries: 3
optional_params:
  refid: request.refid
list_modules:
  - MOD01
  - MOD02
`

func TestProductUnmarshal_TemplateOrderPreserved(t *testing.T) {
	var p product.Product
	if err := yaml.Unmarshal([]byte(productYAML), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := []product.Param{
		{Name: "username", Source: "modules.username"},
		{Name: "to", Source: "request.dest"},
		{Name: "trxid", Source: "request.trxid"},
		{Name: "channel", Source: "api"},
		{Name: "retries", Source: "3"},
	}
	if len(p.RequiredParams) != len(want) {
		t.Fatalf("got %d required params, want %d", len(p.RequiredParams), len(want))
	}
	for i, w := range want {
		if p.RequiredParams[i] != w {
			t.Errorf("required[%d] = %+v, want %+v", i, p.RequiredParams[i], w)
		}
	}

	if len(p.OptionalParams) != 1 || p.OptionalParams[0].Name != "refid" {
		t.Errorf("optional params = %+v", p.OptionalParams)
	}
	if p.AsJSON != 1 {
		t.Errorf("json = %d, want 1", p.AsJSON)
	}
}

func TestProductUnmarshal_BooleanTemplateValue(t *testing.T) {
	var tpl product.ParamTemplate
	if err := yaml.Unmarshal([]byte("flag: true\n"), &tpl); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(tpl) != 1 || tpl[0].Source != "true" {
		t.Errorf("template = %+v, want flag=true as literal text", tpl)
	}
}

func TestProductUnmarshal_TemplateMustBeMapping(t *testing.T) {
	var tpl product.ParamTemplate
	if err := yaml.Unmarshal([]byte("- a\n- b\n"), &tpl); err == nil {
		t.Error("expected error for sequence template")
	}
}

func TestProductValidate(t *testing.T) {
	valid := product.Product{
		ProductID:   "DATA10",
		Name:        "Data 10GB",
		Provider:    "digipos",
		IsActive:    true,
		APIPath:     "/v1/purchase",
		Method:      "POST",
		ListModules: []string{"MOD01"},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid product rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*product.Product)
	}{
		{"missing productid", func(p *product.Product) { p.ProductID = "" }},
		{"missing name", func(p *product.Product) { p.Name = "" }},
		{"missing provider", func(p *product.Product) { p.Provider = "" }},
		{"missing api_path", func(p *product.Product) { p.APIPath = "" }},
		{"missing method", func(p *product.Product) { p.Method = "" }},
		{"empty module entry", func(p *product.Product) { p.ListModules = []string{"MOD01", ""} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := valid
			tc.mutate(&p)
			if err := p.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAllowsModule(t *testing.T) {
	p := product.Product{ListModules: []string{"MOD01", "MOD02"}}
	if !p.AllowsModule("MOD02") {
		t.Error("MOD02 should be allowed")
	}
	if p.AllowsModule("MOD03") {
		t.Error("MOD03 should not be allowed")
	}
	empty := product.Product{}
	if empty.AllowsModule("MOD01") {
		t.Error("empty list allows nothing")
	}
}
