package models

import "time"

type TipoConfiguracion string

const (
	ConfigTexto    TipoConfiguracion = "texto"
	ConfigNumero   TipoConfiguracion = "numero"
	ConfigBooleano TipoConfiguracion = "booleano"
	ConfigJSON     TipoConfiguracion = "json"
)

func (t TipoConfiguracion) Valido() bool {
	switch t {
	case ConfigTexto, ConfigNumero, ConfigBooleano, ConfigJSON:
		return true
	}
	return false
}

// Configuracion is a typed key-value setting, upserted by Clave.
type Configuracion struct {
	Clave              string
	Valor              string
	Tipo               TipoConfiguracion
	Grupo              string
	Descripcion        string
	FechaActualizacion time.Time
}

// TipoDocumento enumerates the legal documents persisted as reserved
// configuration keys.
type TipoDocumento string

const (
	DocumentoTerminos   TipoDocumento = "terminos"
	DocumentoPrivacidad TipoDocumento = "privacidad"
)

func (t TipoDocumento) Valido() bool {
	return t == DocumentoTerminos || t == DocumentoPrivacidad
}

// DocumentoLegal is the materialized view of the four reserved keys
// {tipo}_contenido, {tipo}_version, {tipo}_fecha_vigencia, {tipo}_activo.
type DocumentoLegal struct {
	Tipo          TipoDocumento
	Contenido     string
	Version       string
	FechaVigencia string
	Activo        bool
}
