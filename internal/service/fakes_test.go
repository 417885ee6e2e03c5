package service

import (
	"bytes"
	"context"
	"time"

	"github.com/rentamaq/api/internal/models"
	"github.com/rentamaq/api/internal/repository"
)

// In-memory stores backing the service tests.

type fakeUsuarioStore struct {
	usuarios map[string]models.Usuario
}

func newFakeUsuarioStore() *fakeUsuarioStore {
	return &fakeUsuarioStore{usuarios: make(map[string]models.Usuario)}
}

func (f *fakeUsuarioStore) Create(_ context.Context, usuario models.Usuario) error {
	f.usuarios[usuario.ID] = usuario
	return nil
}

func (f *fakeUsuarioStore) FindActiveByLogin(_ context.Context, login string) (models.Usuario, error) {
	for _, u := range f.usuarios {
		if u.Activo && (u.Username == login || u.Email == login) {
			return u, nil
		}
	}
	return models.Usuario{}, repository.ErrUsuarioNotFound
}

func (f *fakeUsuarioStore) RecordLoginFailure(_ context.Context, id string, intentos int, bloqueadoHasta *time.Time) error {
	u, ok := f.usuarios[id]
	if !ok {
		return repository.ErrUsuarioNotFound
	}
	u.IntentosFallidos = intentos
	u.BloqueadoHasta = bloqueadoHasta
	f.usuarios[id] = u
	return nil
}

func (f *fakeUsuarioStore) RecordLoginSuccess(_ context.Context, id string) error {
	u, ok := f.usuarios[id]
	if !ok {
		return repository.ErrUsuarioNotFound
	}
	now := time.Now()
	u.IntentosFallidos = 0
	u.BloqueadoHasta = nil
	u.UltimoAcceso = &now
	f.usuarios[id] = u
	return nil
}

type fakeSesionStore struct {
	sesiones map[string]models.Sesion
	usuarios *fakeUsuarioStore
}

func newFakeSesionStore(usuarios *fakeUsuarioStore) *fakeSesionStore {
	return &fakeSesionStore{sesiones: make(map[string]models.Sesion), usuarios: usuarios}
}

func (f *fakeSesionStore) Create(_ context.Context, sesion models.Sesion) error {
	f.sesiones[sesion.ID] = sesion
	return nil
}

func (f *fakeSesionStore) FindActiveByTokenHash(_ context.Context, tokenHash []byte) (models.Sesion, models.Usuario, error) {
	for _, s := range f.sesiones {
		if !s.Activa || !bytes.Equal(s.TokenHash, tokenHash) {
			continue
		}
		u, ok := f.usuarios.usuarios[s.UsuarioID]
		if !ok || !u.Activo {
			continue
		}
		return s, u, nil
	}
	return models.Sesion{}, models.Usuario{}, repository.ErrSesionNotFound
}

func (f *fakeSesionStore) Deactivate(_ context.Context, id string) error {
	s, ok := f.sesiones[id]
	if !ok {
		return repository.ErrSesionNotFound
	}
	s.Activa = false
	f.sesiones[id] = s
	return nil
}

func (f *fakeSesionStore) DeleteExpired(_ context.Context) (int64, error) {
	var removed int64
	now := time.Now()
	for id, s := range f.sesiones {
		if !s.Activa || s.Expirada(now) {
			delete(f.sesiones, id)
			removed++
		}
	}
	return removed, nil
}

type fakeClienteStore struct {
	clientes map[string]models.Cliente
}

func newFakeClienteStore() *fakeClienteStore {
	return &fakeClienteStore{clientes: make(map[string]models.Cliente)}
}

func (f *fakeClienteStore) Create(_ context.Context, cliente models.Cliente) error {
	f.clientes[cliente.ID] = cliente
	return nil
}

func (f *fakeClienteStore) GetByID(_ context.Context, id string) (models.Cliente, error) {
	c, ok := f.clientes[id]
	if !ok {
		return models.Cliente{}, repository.ErrClienteNotFound
	}
	return c, nil
}

func (f *fakeClienteStore) FindByRUT(_ context.Context, rut string) (models.Cliente, error) {
	for _, c := range f.clientes {
		if c.RUT == rut {
			return c, nil
		}
	}
	return models.Cliente{}, repository.ErrClienteNotFound
}

func (f *fakeClienteStore) List(_ context.Context, incluirInactivos bool) ([]models.Cliente, error) {
	var out []models.Cliente
	for _, c := range f.clientes {
		if c.Activo || incluirInactivos {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeClienteStore) Update(_ context.Context, cliente models.Cliente) error {
	stored, ok := f.clientes[cliente.ID]
	if !ok {
		return repository.ErrClienteNotFound
	}
	cliente.RUT = stored.RUT // immutable column is never written
	f.clientes[cliente.ID] = cliente
	return nil
}

func (f *fakeClienteStore) Deactivate(_ context.Context, id string) error {
	c, ok := f.clientes[id]
	if !ok {
		return repository.ErrClienteNotFound
	}
	c.Activo = false
	f.clientes[id] = c
	return nil
}

type fakeCategoriaStore struct {
	categorias map[string]models.Categoria
}

func newFakeCategoriaStore() *fakeCategoriaStore {
	return &fakeCategoriaStore{categorias: make(map[string]models.Categoria)}
}

func (f *fakeCategoriaStore) GetByID(_ context.Context, id string) (models.Categoria, error) {
	c, ok := f.categorias[id]
	if !ok {
		return models.Categoria{}, repository.ErrCategoriaNotFound
	}
	return c, nil
}

func (f *fakeCategoriaStore) List(_ context.Context) ([]models.Categoria, error) {
	var out []models.Categoria
	for _, c := range f.categorias {
		if c.Activo {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeEquipoStore struct {
	equipos map[string]models.Equipo
}

func newFakeEquipoStore() *fakeEquipoStore {
	return &fakeEquipoStore{equipos: make(map[string]models.Equipo)}
}

func (f *fakeEquipoStore) Create(_ context.Context, equipo models.Equipo) error {
	f.equipos[equipo.ID] = equipo
	return nil
}

func (f *fakeEquipoStore) GetByID(_ context.Context, id string) (models.Equipo, error) {
	e, ok := f.equipos[id]
	if !ok {
		return models.Equipo{}, repository.ErrEquipoNotFound
	}
	return e, nil
}

func (f *fakeEquipoStore) FindByCodigo(_ context.Context, codigo string) (models.Equipo, error) {
	for _, e := range f.equipos {
		if e.Codigo == codigo {
			return e, nil
		}
	}
	return models.Equipo{}, repository.ErrEquipoNotFound
}

func (f *fakeEquipoStore) List(_ context.Context, filter repository.EquipoFilter) ([]models.Equipo, error) {
	var out []models.Equipo
	for _, e := range f.equipos {
		if !e.Activo && !filter.IncluirInactivos {
			continue
		}
		if filter.CategoriaID != "" && e.CategoriaID != filter.CategoriaID {
			continue
		}
		if filter.Estado != "" && e.Estado != filter.Estado {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEquipoStore) ListDisponibles(ctx context.Context) ([]models.Equipo, error) {
	return f.List(ctx, repository.EquipoFilter{Estado: models.EquipoDisponible})
}

func (f *fakeEquipoStore) Update(_ context.Context, equipo models.Equipo) error {
	if _, ok := f.equipos[equipo.ID]; !ok {
		return repository.ErrEquipoNotFound
	}
	f.equipos[equipo.ID] = equipo
	return nil
}

func (f *fakeEquipoStore) UpdateEstado(_ context.Context, id string, estado models.EstadoEquipo) error {
	e, ok := f.equipos[id]
	if !ok {
		return repository.ErrEquipoNotFound
	}
	e.Estado = estado
	f.equipos[id] = e
	return nil
}

func (f *fakeEquipoStore) Deactivate(_ context.Context, id string) error {
	e, ok := f.equipos[id]
	if !ok {
		return repository.ErrEquipoNotFound
	}
	e.Activo = false
	f.equipos[id] = e
	return nil
}

// fakeArriendoStore mirrors the transactional semantics of the SQL
// repository, including the release guard for equipment shared with another
// activo contract.
type fakeArriendoStore struct {
	arriendos map[string]models.Arriendo
	equipos   *fakeEquipoStore
}

func newFakeArriendoStore(equipos *fakeEquipoStore) *fakeArriendoStore {
	return &fakeArriendoStore{arriendos: make(map[string]models.Arriendo), equipos: equipos}
}

func (f *fakeArriendoStore) Create(_ context.Context, arriendo models.Arriendo) error {
	f.arriendos[arriendo.ID] = arriendo
	return nil
}

func (f *fakeArriendoStore) GetByID(_ context.Context, id string) (models.Arriendo, error) {
	a, ok := f.arriendos[id]
	if !ok {
		return models.Arriendo{}, repository.ErrArriendoNotFound
	}
	return a, nil
}

func (f *fakeArriendoStore) List(_ context.Context, filter repository.ArriendoFilter) ([]models.Arriendo, error) {
	var out []models.Arriendo
	for _, a := range f.arriendos {
		if filter.ClienteID != "" && a.ClienteID != filter.ClienteID {
			continue
		}
		if filter.Estado != "" && a.Estado != filter.Estado {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeArriendoStore) equipoEnOtroActivo(equipoID string, exceptoArriendo string) bool {
	for _, a := range f.arriendos {
		if a.ID == exceptoArriendo || a.Estado != models.ArriendoActivo {
			continue
		}
		for _, item := range a.Items {
			if item.EquipoID == equipoID {
				return true
			}
		}
	}
	return false
}

func (f *fakeArriendoStore) UpdateEstado(ctx context.Context, id string, estado models.EstadoArriendo) error {
	a, ok := f.arriendos[id]
	if !ok {
		return repository.ErrArriendoNotFound
	}
	a.Estado = estado
	f.arriendos[id] = a

	if efecto, ok := estado.EfectoEnEquipos(); ok {
		for _, item := range a.Items {
			if efecto == models.EquipoDisponible && f.equipoEnOtroActivo(item.EquipoID, id) {
				continue
			}
			if err := f.equipos.UpdateEstado(ctx, item.EquipoID, efecto); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *fakeArriendoStore) DeleteCascade(ctx context.Context, id string) error {
	a, ok := f.arriendos[id]
	if !ok {
		return repository.ErrArriendoNotFound
	}
	if a.Estado == models.ArriendoActivo {
		return repository.ErrArriendoActivo
	}

	for _, item := range a.Items {
		if f.equipoEnOtroActivo(item.EquipoID, id) {
			continue
		}
		if err := f.equipos.UpdateEstado(ctx, item.EquipoID, models.EquipoDisponible); err != nil {
			return err
		}
	}
	delete(f.arriendos, id)
	return nil
}

func (f *fakeArriendoStore) AddPago(_ context.Context, pago models.Pago) error {
	a, ok := f.arriendos[pago.ArriendoID]
	if !ok {
		return repository.ErrArriendoNotFound
	}
	a.Pagos = append(a.Pagos, pago)
	f.arriendos[pago.ArriendoID] = a
	return nil
}

func (f *fakeArriendoStore) CountPorCliente(_ context.Context, clienteID string, estados []models.EstadoArriendo) (int, error) {
	count := 0
	for _, a := range f.arriendos {
		if a.ClienteID != clienteID {
			continue
		}
		for _, e := range estados {
			if a.Estado == e {
				count++
				break
			}
		}
	}
	return count, nil
}

func (f *fakeArriendoStore) CountPorEquipo(_ context.Context, equipoID string, estados []models.EstadoArriendo) (int, error) {
	count := 0
	for _, a := range f.arriendos {
		matchEstado := false
		for _, e := range estados {
			if a.Estado == e {
				matchEstado = true
				break
			}
		}
		if !matchEstado {
			continue
		}
		for _, item := range a.Items {
			if item.EquipoID == equipoID {
				count++
				break
			}
		}
	}
	return count, nil
}

type fakeConfiguracionStore struct {
	entries map[string]models.Configuracion
}

func newFakeConfiguracionStore() *fakeConfiguracionStore {
	return &fakeConfiguracionStore{entries: make(map[string]models.Configuracion)}
}

func (f *fakeConfiguracionStore) Get(_ context.Context, clave string) (models.Configuracion, error) {
	e, ok := f.entries[clave]
	if !ok {
		return models.Configuracion{}, repository.ErrConfiguracionNotFound
	}
	return e, nil
}

func (f *fakeConfiguracionStore) List(_ context.Context, grupo string) ([]models.Configuracion, error) {
	var out []models.Configuracion
	for _, e := range f.entries {
		if grupo == "" || e.Grupo == grupo {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeConfiguracionStore) Upsert(_ context.Context, entry models.Configuracion) error {
	if existing, ok := f.entries[entry.Clave]; ok {
		existing.Valor = entry.Valor
		existing.FechaActualizacion = time.Now()
		f.entries[entry.Clave] = existing
		return nil
	}
	entry.FechaActualizacion = time.Now()
	f.entries[entry.Clave] = entry
	return nil
}
