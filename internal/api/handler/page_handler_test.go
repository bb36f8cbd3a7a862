package handler

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/skymanifest/passenger-admin/internal/core/domain"
)

func TestTemplateRenderer_RendersEveryPage(t *testing.T) {
	r, err := NewTemplateRenderer()
	if err != nil {
		t.Fatalf("NewTemplateRenderer: %v", err)
	}

	admin := domain.Principal{ID: "a1", Role: domain.RoleAdmin}
	pages := map[string]pageData{
		"login":     {Title: "Sign in"},
		"register":  {Title: "Register"},
		"dashboard": {Title: "Dashboard", Principal: admin, IsAdmin: true, Data: dashboardResponse{ByStatus: map[string]int64{"booked": 2}, UsersByRole: map[string]int64{"ADMIN": 1}}},
		"passengers": {Title: "Passengers", Principal: admin, Data: listPassengersResponse{
			Items: []passengerResponse{{FullName: "<script>alert(1)</script>", FlightNumber: "AM401"}}, Total: 1, Page: 1, TotalPages: 1,
		}},
		"users": {Title: "Users", Principal: admin, IsAdmin: true, Data: listUsersResponse{
			Items: []userResponse{{Name: "Root", Email: "root@x.com", Role: "ADMIN", CreatedAt: time.Now()}}, Total: 1, Page: 1, TotalPages: 1,
		}},
	}

	for name, data := range pages {
		var buf bytes.Buffer
		if err := r.Render(&buf, name, data, nil); err != nil {
			t.Fatalf("render %s: %v", name, err)
		}
		if !strings.Contains(buf.String(), data.Title) {
			t.Errorf("page %s does not contain its title", name)
		}
	}

	var buf bytes.Buffer
	_ = r.Render(&buf, "passengers", pages["passengers"], nil)
	if strings.Contains(buf.String(), "<script>alert(1)</script>") {
		t.Fatal("passenger names must be escaped")
	}
	if err := r.Render(&buf, "missing", pageData{}, nil); err == nil {
		t.Fatal("expected error for unknown page")
	}
}
