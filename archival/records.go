package archival

import (
	"time"

	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/export"
	"github.com/shopspring/decimal"
)

// Metadata is carried by every record type but hidden from printed output.
type Metadata struct {
	Status      Status     `json:"estado"`
	CreatedAt   *time.Time `json:"fechaCreacion,omitempty"`
	ModifiedAt  *time.Time `json:"fechaModificacion,omitempty"`
	Version     *int       `json:"version,omitempty"`
	RutaArchivo string     `json:"rutaArchivo"`
}

func (m Metadata) apply(h map[string]export.Value) {
	h["estado"] = optText(string(m.Status))
	h["fechaCreacion"] = optDateTime(m.CreatedAt)
	h["fechaModificacion"] = optDateTime(m.ModifiedAt)
	h["version"] = optInt(m.Version)
	h["rutaArchivo"] = optText(m.RutaArchivo)
}

// GeneralInventory is the general transfer inventory (Anexo N° 04).
type GeneralInventory struct {
	Metadata
	UnidadAdministrativa       string              `json:"unidadAdministrativa"`
	NumeroAnioRemision         string              `json:"numeroAnioRemision"`
	Seccion                    string              `json:"seccion"`
	FechaTransferencia         *time.Time          `json:"fechaTransferencia,omitempty"`
	Titulo                     string              `json:"titulo"`
	FechaInicial               *time.Time          `json:"fechaInicial,omitempty"`
	FechaFinal                 *time.Time          `json:"fechaFinal,omitempty"`
	EstadoConservacion         string              `json:"estadoConservacion"`
	TotalVolumen               decimal.NullDecimal `json:"totalVolumen"`
	Observaciones              string              `json:"observaciones"`
	LugarFechaEntrega          string              `json:"lugarFechaEntrega"`
	LugarFechaRecepcion        string              `json:"lugarFechaRecepcion"`
	FirmaSelloAutoridadEntrega string              `json:"firmaSelloAutoridadEntrega"`
	FirmaSelloAutoridadRecibe  string              `json:"firmaSelloAutoridadRecibe"`
	Detalles                   []InventoryDetail   `json:"detalles"`
}

// InventoryDetail is one series line of a GeneralInventory.
type InventoryDetail struct {
	NumeroItem                  *int                `json:"numeroItem,omitempty"`
	SerieDocumental             string              `json:"serieDocumental"`
	FechaExtremaDel             *time.Time          `json:"fechaExtremaDel,omitempty"`
	FechaExtremaAl              *time.Time          `json:"fechaExtremaAl,omitempty"`
	TipoUnidadArchivamiento     string              `json:"tipoUnidadArchivamiento"`
	CantidadUnidadArchivamiento *int                `json:"cantidadUnidadArchivamiento,omitempty"`
	VolumenMetrosLineales       decimal.NullDecimal `json:"volumenMetrosLineales"`
	Soporte                     string              `json:"soporte"`
	Observaciones               string              `json:"observaciones"`
}

func (GeneralInventory) RecordType() string { return GeneralInventoryType }

// Request converts the inventory into an export request.
func (r GeneralInventory) Request() export.ExportRequest {
	h := map[string]export.Value{
		"unidadAdministrativa":       optText(r.UnidadAdministrativa),
		"numeroAnioRemision":         optText(r.NumeroAnioRemision),
		"seccion":                    optText(r.Seccion),
		"fechaTransferencia":         optDate(r.FechaTransferencia),
		"titulo":                     optText(r.Titulo),
		"fechaInicial":               optDateTime(r.FechaInicial),
		"fechaFinal":                 optDateTime(r.FechaFinal),
		"estadoConservacion":         optText(r.EstadoConservacion),
		"totalVolumen":               optDecimal(r.TotalVolumen),
		"observaciones":              optText(r.Observaciones),
		"lugarFechaEntrega":          optText(r.LugarFechaEntrega),
		"lugarFechaRecepcion":        optText(r.LugarFechaRecepcion),
		"firmaSelloAutoridadEntrega": optText(r.FirmaSelloAutoridadEntrega),
		"firmaSelloAutoridadRecibe":  optText(r.FirmaSelloAutoridadRecibe),
	}
	r.Metadata.apply(h)

	rows := make([]export.Row, 0, len(r.Detalles))
	for _, d := range r.Detalles {
		rows = append(rows, export.Row{
			optInt(d.NumeroItem),
			optText(d.SerieDocumental),
			optDate(d.FechaExtremaDel),
			optDate(d.FechaExtremaAl),
			optText(d.TipoUnidadArchivamiento),
			optInt(d.CantidadUnidadArchivamiento),
			optDecimal(d.VolumenMetrosLineales),
			optText(d.Soporte),
			optText(d.Observaciones),
		})
	}
	return export.ExportRequest{Definition: GeneralInventoryType, Header: h, Details: rows}
}

// ComputeTotal sums detail volumes into TotalVolumen when it is unset.
func (r *GeneralInventory) ComputeTotal() {
	if r.TotalVolumen.Valid {
		return
	}
	total := decimal.Zero
	for _, d := range r.Detalles {
		if d.VolumenMetrosLineales.Valid {
			total = total.Add(d.VolumenMetrosLineales.Decimal)
		}
	}
	r.TotalVolumen = decimal.NullDecimal{Decimal: total, Valid: true}
}

// TransferHeader holds the descriptive block shared by registers and catalogs.
type TransferHeader struct {
	NombreEntidad          string              `json:"nombreEntidad"`
	UnidadOrganizacion     string              `json:"unidadOrganizacion"`
	Seccion                string              `json:"seccion"`
	NivelDescripcion       string              `json:"nivelDescripcion"`
	SerieDocumental        string              `json:"serieDocumental"`
	CodigoReferencia       string              `json:"codigoReferencia"`
	Soporte                string              `json:"soporte"`
	VolumenMetrosLineales  decimal.NullDecimal `json:"volumenMetrosLineales"`
	ResponsableSeccion     string              `json:"responsableSeccion"`
	InventarioElaboradoPor string              `json:"inventarioElaboradoPor"`
	NumeroAnioRemision     string              `json:"numeroAnioRemision"`
	LugarFechaElaboracion  string              `json:"lugarFechaElaboracion"`
	VistoBuenoResponsable  string              `json:"vistoBuenoResponsable"`
}

func (t TransferHeader) header() map[string]export.Value {
	return map[string]export.Value{
		"nombreEntidad":          optText(t.NombreEntidad),
		"unidadOrganizacion":     optText(t.UnidadOrganizacion),
		"seccion":                optText(t.Seccion),
		"nivelDescripcion":       optText(t.NivelDescripcion),
		"serieDocumental":        optText(t.SerieDocumental),
		"codigoReferencia":       optText(t.CodigoReferencia),
		"soporte":                optText(t.Soporte),
		"volumenMetrosLineales":  optDecimal(t.VolumenMetrosLineales),
		"responsableSeccion":     optText(t.ResponsableSeccion),
		"inventarioElaboradoPor": optText(t.InventarioElaboradoPor),
		"numeroAnioRemision":     optText(t.NumeroAnioRemision),
		"lugarFechaElaboracion":  optText(t.LugarFechaElaboracion),
		"vistoBuenoResponsable":  optText(t.VistoBuenoResponsable),
	}
}

// TransferRegister is the transfer register (Anexo N° 05).
type TransferRegister struct {
	Metadata
	TransferHeader
	FechaTransferencia *time.Time       `json:"fechaTransferencia,omitempty"`
	Detalles           []RegisterDetail `json:"detalles"`
}

// RegisterDetail is one unit line of a TransferRegister.
type RegisterDetail struct {
	NumeroItem        *int       `json:"numeroItem,omitempty"`
	NumeroCaja        string     `json:"numeroCaja"`
	NumeroTomoPaquete string     `json:"numeroTomoPaquete"`
	AlcanceContenido  string     `json:"alcanceContenido"`
	RangoExtremoDel   string     `json:"rangoExtremoDel"`
	RangoExtremoAl    string     `json:"rangoExtremoAl"`
	FechaExtremaDel   *time.Time `json:"fechaExtremaDel,omitempty"`
	FechaExtremaAl    *time.Time `json:"fechaExtremaAl,omitempty"`
	CantidadFolios    *int       `json:"cantidadFolios,omitempty"`
	Observaciones     string     `json:"observaciones"`
}

func (TransferRegister) RecordType() string { return TransferRegisterType }

// Request converts the register into an export request.
func (r TransferRegister) Request() export.ExportRequest {
	h := r.TransferHeader.header()
	h["fechaTransferencia"] = optDate(r.FechaTransferencia)
	r.Metadata.apply(h)

	rows := make([]export.Row, 0, len(r.Detalles))
	for _, d := range r.Detalles {
		rows = append(rows, export.Row{
			optInt(d.NumeroItem),
			optText(d.NumeroCaja),
			optText(d.NumeroTomoPaquete),
			optText(d.AlcanceContenido),
			optText(d.RangoExtremoDel),
			optText(d.RangoExtremoAl),
			optDate(d.FechaExtremaDel),
			optDate(d.FechaExtremaAl),
			optInt(d.CantidadFolios),
			optText(d.Observaciones),
		})
	}
	return export.ExportRequest{Definition: TransferRegisterType, Header: h, Details: rows}
}

// TransferCatalog is the transfer catalog (Anexo N° 06).
type TransferCatalog struct {
	Metadata
	TransferHeader
	Titulo        string          `json:"titulo"`
	Observaciones string          `json:"observaciones"`
	Detalles      []CatalogDetail `json:"detalles"`
}

// CatalogDetail is one documentary unit of a TransferCatalog.
type CatalogDetail struct {
	NumeroItem             *int       `json:"numeroItem,omitempty"`
	NumeroCaja             string     `json:"numeroCaja"`
	NumeroTomoPaquete      string     `json:"numeroTomoPaquete"`
	NumeroUnidadDocumental string     `json:"numeroUnidadDocumental"`
	FechaUnidadDocumental  *time.Time `json:"fechaUnidadDocumental,omitempty"`
	AlcanceContenido       string     `json:"alcanceContenido"`
	InformacionAdicional   string     `json:"informacionAdicional"`
	CantidadFolios         *int       `json:"cantidadFolios,omitempty"`
	Observaciones          string     `json:"observaciones"`
}

func (TransferCatalog) RecordType() string { return TransferCatalogType }

// Request converts the catalog into an export request.
func (r TransferCatalog) Request() export.ExportRequest {
	h := r.TransferHeader.header()
	h["titulo"] = optText(r.Titulo)
	h["observaciones"] = optText(r.Observaciones)
	r.Metadata.apply(h)

	rows := make([]export.Row, 0, len(r.Detalles))
	for _, d := range r.Detalles {
		rows = append(rows, export.Row{
			optInt(d.NumeroItem),
			optText(d.NumeroCaja),
			optText(d.NumeroTomoPaquete),
			optText(d.NumeroUnidadDocumental),
			optDate(d.FechaUnidadDocumental),
			optText(d.AlcanceContenido),
			optText(d.InformacionAdicional),
			optInt(d.CantidadFolios),
			optText(d.Observaciones),
		})
	}
	return export.ExportRequest{Definition: TransferCatalogType, Header: h, Details: rows}
}

func optText(s string) export.Value {
	return export.Text(s)
}

func optInt(n *int) export.Value {
	if n == nil {
		return export.Null(export.ValueInteger)
	}
	return export.Integer(int64(*n))
}

func optDecimal(d decimal.NullDecimal) export.Value {
	if !d.Valid {
		return export.Null(export.ValueDecimal)
	}
	return export.Decimal(d.Decimal)
}

func optDate(t *time.Time) export.Value {
	if t == nil {
		return export.Null(export.ValueDate)
	}
	return export.Date(*t)
}

func optDateTime(t *time.Time) export.Value {
	if t == nil {
		return export.Null(export.ValueDateTime)
	}
	return export.DateTime(*t)
}
