package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/five82/discografia/internal/catalog"
)

func TestWriteArtists(t *testing.T) {
	types := []catalog.ArtistType{{ID: "1", Description: "Solista", Active: true}}
	artists := []catalog.Artist{
		{ID: "5", ArtistTypeID: "1", Name: "Mercedes", Lastname: "Sosa", Gender: catalog.GenderFemale, DateBirth: "1935-07-09T00:00:00Z", Active: true},
		{ID: "6", ArtistTypeID: "9", Name: "Charly", Lastname: "García", Gender: catalog.GenderMale, DateBirth: "1951-10-23", Active: false},
	}

	var buf bytes.Buffer
	writeArtists(&buf, artists, types)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	for _, want := range []string{"Mercedes", "Solista", "Femenino", "1935-07-09", "Activo"} {
		if !strings.Contains(lines[1], want) {
			t.Fatalf("line %q missing %q", lines[1], want)
		}
	}
	if !strings.Contains(lines[2], catalog.TypeNotFound) || !strings.Contains(lines[2], "Inactivo") {
		t.Fatalf("line %q should show unresolved type and inactive status", lines[2])
	}
}

func TestWriteTypesCountsArtists(t *testing.T) {
	types := []catalog.ArtistType{
		{ID: "1", Description: "Solista", Active: true},
		{ID: "2", Description: "Banda", Active: true},
	}
	artists := []catalog.Artist{{ArtistTypeID: "2"}, {ArtistTypeID: "2"}}

	var buf bytes.Buffer
	writeTypes(&buf, types, artists)
	out := buf.String()
	if !strings.Contains(out, "0 artistas") || !strings.Contains(out, "2 artistas") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
