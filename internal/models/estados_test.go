package models

import (
	"testing"
	"time"
)

func TestEstadoEquipoValido(t *testing.T) {
	for _, e := range []EstadoEquipo{EquipoDisponible, EquipoArrendado, EquipoMantenimiento, EquipoReparacion, EquipoBaja} {
		if !e.Valido() {
			t.Fatalf("%s should be valid", e)
		}
	}
	for _, e := range []EstadoEquipo{"", "prestado", "DISPONIBLE"} {
		if e.Valido() {
			t.Fatalf("%q should be invalid", e)
		}
	}
}

func TestTransicionesEquipo(t *testing.T) {
	// Every state can be sent to service states except itself.
	for _, desde := range []EstadoEquipo{EquipoDisponible, EquipoArrendado, EquipoMantenimiento, EquipoReparacion} {
		for _, hacia := range []EstadoEquipo{EquipoMantenimiento, EquipoReparacion, EquipoBaja} {
			if desde == hacia {
				continue
			}
			if !desde.PuedeTransicionarA(hacia) {
				t.Errorf("%s → %s should be allowed", desde, hacia)
			}
		}
	}

	// baja only returns through a service state.
	if EquipoBaja.PuedeTransicionarA(EquipoDisponible) {
		t.Error("baja → disponible should be blocked")
	}
	if EquipoBaja.PuedeTransicionarA(EquipoArrendado) {
		t.Error("baja → arrendado should be blocked")
	}
	if !EquipoBaja.PuedeTransicionarA(EquipoMantenimiento) {
		t.Error("baja → mantenimiento should be allowed")
	}
}

func TestEstadoArriendoValido(t *testing.T) {
	for _, e := range []EstadoArriendo{ArriendoBorrador, ArriendoCotizacion, ArriendoAprobado, ArriendoActivo, ArriendoFinalizado, ArriendoCancelado} {
		if !e.Valido() {
			t.Fatalf("%s should be valid", e)
		}
	}
	if EstadoArriendo("vigente").Valido() {
		t.Fatal("unknown state accepted")
	}
}

func TestTransicionesArriendo(t *testing.T) {
	allowed := []struct{ desde, hacia EstadoArriendo }{
		{ArriendoBorrador, ArriendoCotizacion},
		{ArriendoBorrador, ArriendoCancelado},
		{ArriendoCotizacion, ArriendoBorrador},
		{ArriendoCotizacion, ArriendoAprobado},
		{ArriendoAprobado, ArriendoActivo},
		{ArriendoActivo, ArriendoFinalizado},
		{ArriendoActivo, ArriendoCancelado},
	}
	for _, tc := range allowed {
		if !tc.desde.PuedeTransicionarA(tc.hacia) {
			t.Errorf("%s → %s should be allowed", tc.desde, tc.hacia)
		}
	}

	blocked := []struct{ desde, hacia EstadoArriendo }{
		{ArriendoBorrador, ArriendoActivo},
		{ArriendoBorrador, ArriendoFinalizado},
		{ArriendoAprobado, ArriendoFinalizado},
		{ArriendoFinalizado, ArriendoActivo},
		{ArriendoCancelado, ArriendoBorrador},
	}
	for _, tc := range blocked {
		if tc.desde.PuedeTransicionarA(tc.hacia) {
			t.Errorf("%s → %s should be blocked", tc.desde, tc.hacia)
		}
	}

	// Terminal states have no exits at all.
	for _, terminal := range []EstadoArriendo{ArriendoFinalizado, ArriendoCancelado} {
		if len(TransicionesArriendo[terminal]) != 0 {
			t.Errorf("%s should be terminal", terminal)
		}
	}
}

func TestEfectoEnEquipos(t *testing.T) {
	if efecto, ok := ArriendoActivo.EfectoEnEquipos(); !ok || efecto != EquipoArrendado {
		t.Fatalf("activo effect = %s/%v", efecto, ok)
	}
	for _, e := range []EstadoArriendo{ArriendoFinalizado, ArriendoCancelado} {
		if efecto, ok := e.EfectoEnEquipos(); !ok || efecto != EquipoDisponible {
			t.Fatalf("%s effect = %s/%v", e, efecto, ok)
		}
	}
	for _, e := range []EstadoArriendo{ArriendoBorrador, ArriendoCotizacion, ArriendoAprobado} {
		if _, ok := e.EfectoEnEquipos(); ok {
			t.Fatalf("%s should have no equipment effect", e)
		}
	}
}

func TestUsuarioBloqueado(t *testing.T) {
	ahora := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	var u Usuario
	if u.Bloqueado(ahora) {
		t.Fatal("user without lockout reported as locked")
	}

	hasta := ahora.Add(30 * time.Minute)
	u.BloqueadoHasta = &hasta
	if !u.Bloqueado(ahora) {
		t.Fatal("user with future lockout reported as unlocked")
	}
	if u.Bloqueado(hasta) {
		t.Fatal("lockout should end at its boundary")
	}
}

func TestSesionExpirada(t *testing.T) {
	ahora := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	s := Sesion{ExpiresAt: ahora.Add(24 * time.Hour)}

	if s.Expirada(ahora) {
		t.Fatal("fresh session reported expired")
	}
	if !s.Expirada(s.ExpiresAt) {
		t.Fatal("session should expire at its boundary")
	}
	if !s.Expirada(s.ExpiresAt.Add(time.Second)) {
		t.Fatal("past-expiry session reported valid")
	}
}
