package app_test

import (
	"github.com/artpar/digigate/domain/member"
	"github.com/artpar/digigate/domain/module"
	"github.com/artpar/digigate/domain/product"
)

// In-memory record sources standing in for the stores.

type fakeMembers map[string]member.Member

func (f fakeMembers) GetByID(id string) (member.Member, bool) {
	m, ok := f[id]
	return m, ok
}

type fakeModules map[string]module.Module

func (f fakeModules) GetByID(id string) (module.Module, bool) {
	m, ok := f[id]
	return m, ok
}

type fakeProducts map[string]product.Product

func (f fakeProducts) GetByID(id string) (product.Product, bool) {
	p, ok := f[id]
	return p, ok
}

func testMember() member.Member {
	return member.Member{
		MemberID:    "AGT001",
		Name:        "Test Agent",
		PIN:         member.Secret("123456"),
		Password:    member.Secret("hunter22"),
		IsActive:    true,
		IPAddress:   "10.0.0.5",
		ReportURL:   "https://agent.example.com/report",
		AllowNosign: true,
	}
}

func testModule() module.Module {
	return module.Module{
		ModuleID:   "MOD01",
		Name:       "Primary Connection",
		Username:   "gw-user",
		MSISDN:     "628110001111",
		PIN:        "9876",
		Password:   "modpass",
		Email:      "ops@example.com",
		IsActive:   true,
		BaseURL:    "https://api.provider.example",
		Timeout:    30,
		MaxRetries: 2,
		SecondWait: 1,
		Provider:   "digipos",
	}
}

func testProduct() product.Product {
	return product.Product{
		ProductID: "DATA10",
		Name:      "Data 10GB",
		Provider:  "digipos",
		Type:      "data",
		IsActive:  true,
		APIPath:   "/v1/purchase",
		Method:    "POST",
		RequiredParams: product.ParamTemplate{
			{Name: "username", Source: "modules.username"},
			{Name: "to", Source: "request.dest"},
			{Name: "trxid", Source: "request.trxid"},
			{Name: "channel", Source: "api"},
		},
		OptionalParams: product.ParamTemplate{
			{Name: "refid", Source: "request.refid"},
		},
		ListModules: []string{"MOD01"},
	}
}
