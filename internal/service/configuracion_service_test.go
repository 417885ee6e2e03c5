package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rentamaq/api/internal/models"
)

func newConfiguracionFixture() (*ConfiguracionService, *fakeConfiguracionStore) {
	store := newFakeConfiguracionStore()
	return NewConfiguracionService(store, nil, zerolog.Nop()), store
}

func TestConfiguracionUpsertValidatesType(t *testing.T) {
	svc, _ := newConfiguracionFixture()
	ctx := context.Background()

	cases := []struct {
		name  string
		tipo  models.TipoConfiguracion
		valor string
		ok    bool
	}{
		{"numero válido", models.ConfigNumero, "19", true},
		{"numero decimal", models.ConfigNumero, "19.5", true},
		{"numero inválido", models.ConfigNumero, "diecinueve", false},
		{"booleano true", models.ConfigBooleano, "true", true},
		{"booleano inválido", models.ConfigBooleano, "sí", false},
		{"json válido", models.ConfigJSON, `{"horario":"9-18"}`, true},
		{"json inválido", models.ConfigJSON, `{"horario":`, false},
		{"texto libre", models.ConfigTexto, "cualquier cosa", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Upsert(ctx, "clave_prueba", ConfiguracionInput{Valor: tc.valor, Tipo: tc.tipo})
			if tc.ok {
				if err != nil {
					t.Fatalf("upsert: %v", err)
				}
				return
			}
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestConfiguracionUpsertUpdatesInPlace(t *testing.T) {
	svc, store := newConfiguracionFixture()
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, "igv_porcentaje", ConfiguracionInput{Valor: "19", Tipo: models.ConfigNumero, Grupo: "facturacion"}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	entry, err := svc.Upsert(ctx, "igv_porcentaje", ConfiguracionInput{Valor: "21", Tipo: models.ConfigNumero, Grupo: "facturacion"})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if entry.Valor != "21" {
		t.Fatalf("valor = %q, want 21", entry.Valor)
	}
	if len(store.entries) != 1 {
		t.Fatalf("entries stored = %d, want 1", len(store.entries))
	}
}

func TestConfiguracionUpsertRejectsEmptyKey(t *testing.T) {
	svc, _ := newConfiguracionFixture()

	_, err := svc.Upsert(context.Background(), "   ", ConfiguracionInput{Valor: "x", Tipo: models.ConfigTexto})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestDocumentoRoundTrip(t *testing.T) {
	svc, store := newConfiguracionFixture()
	ctx := context.Background()

	doc, err := svc.SaveDocumento(ctx, models.DocumentoTerminos, DocumentoInput{
		Contenido:     "Condiciones generales de arriendo...",
		Version:       "2.1",
		FechaVigencia: "2026-04-01",
		Activo:        true,
	})
	if err != nil {
		t.Fatalf("save documento: %v", err)
	}
	if doc.Version != "2.1" || !doc.Activo {
		t.Fatalf("documento = %+v", doc)
	}

	// The document is stored as four reserved configuration keys.
	for _, clave := range []string{"terminos_contenido", "terminos_version", "terminos_fecha_vigencia", "terminos_activo"} {
		if _, ok := store.entries[clave]; !ok {
			t.Fatalf("missing key %q", clave)
		}
	}

	leido, err := svc.GetDocumento(ctx, models.DocumentoTerminos)
	if err != nil {
		t.Fatalf("get documento: %v", err)
	}
	if leido.Contenido != doc.Contenido || leido.FechaVigencia != "2026-04-01" {
		t.Fatalf("documento leído = %+v", leido)
	}
}

func TestDocumentoNuncaPublicadoEsVacio(t *testing.T) {
	svc, _ := newConfiguracionFixture()

	doc, err := svc.GetDocumento(context.Background(), models.DocumentoPrivacidad)
	if err != nil {
		t.Fatalf("get documento: %v", err)
	}
	if doc.Contenido != "" || doc.Version != "" || doc.Activo {
		t.Fatalf("documento = %+v, want zero values", doc)
	}
}

func TestDocumentoVersionObligatoria(t *testing.T) {
	svc, _ := newConfiguracionFixture()

	_, err := svc.SaveDocumento(context.Background(), models.DocumentoTerminos, DocumentoInput{Contenido: "..."})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestDocumentoTipoInvalido(t *testing.T) {
	svc, _ := newConfiguracionFixture()

	_, err := svc.GetDocumento(context.Background(), "contrato")
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}
