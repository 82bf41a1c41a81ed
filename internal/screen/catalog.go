package screen

import (
	"github.com/cancha-platform/cancha-admin/internal/auth"
	"github.com/cancha-platform/cancha-admin/internal/cancha"
)

func number(v float64) *float64 { return &v }

var estadoReservaOptions = []Option{
	{Value: "pendiente", Label: "Pendiente"},
	{Value: "confirmada", Label: "Confirmada"},
	{Value: "cancelada", Label: "Cancelada"},
	{Value: "completada", Label: "Completada"},
}

var metodoPagoOptions = []Option{
	{Value: "efectivo", Label: "Efectivo"},
	{Value: "tarjeta", Label: "Tarjeta"},
	{Value: "transferencia", Label: "Transferencia"},
	{Value: "qr", Label: "QR"},
}

var estadoSolicitudOptions = []Option{
	{Value: "pendiente", Label: "Pendiente"},
	{Value: "aprobada", Label: "Aprobada"},
	{Value: "rechazada", Label: "Rechazada"},
}

var disciplinaOptions = []Option{
	{Value: "futbol", Label: "Fútbol"},
	{Value: "basquet", Label: "Básquet"},
	{Value: "voley", Label: "Vóley"},
	{Value: "tenis", Label: "Tenis"},
	{Value: "padel", Label: "Pádel"},
}

// adminOnly is the permission set of the back-office screens: full control
// for platform administrators, nothing for everyone else.
var adminOnly = auth.PermissionSet{
	auth.RoleAdministrador: auth.FullAccess(),
}

// adminAndManager lets venue managers work their own records while
// platform administrators keep full control.
var adminAndManager = auth.PermissionSet{
	auth.RoleAdministrador: auth.FullAccess(),
	auth.RoleAdminEspDep:   auth.FullAccess(),
}

// adminManagesManagerReads is for screens where venue managers may look
// but only administrators may change anything.
var adminManagesManagerReads = auth.PermissionSet{
	auth.RoleAdministrador: auth.FullAccess(),
	auth.RoleAdminEspDep:   auth.ReadOnly(),
}

// Catalog returns the schemas of every entity screen, in menu order.
// Each call returns fresh copies so a handler may not corrupt another's
// descriptor.
func Catalog() []*Schema {
	hourOrder := Check{
		Name:    "hora_fin_after_hora_inicio",
		Message: "La hora de fin debe ser posterior a la hora de inicio",
		Fn: func(values map[string]string) bool {
			inicio, fin := values["hora_inicio"], values["hora_fin"]
			if inicio == "" || fin == "" {
				return true
			}

			// HH:MM strings compare correctly as text.
			return fin > inicio
		},
	}

	return []*Schema{
		{
			Slug:          "administrador",
			Title:         "Administradores",
			TitleSingular: "Administrador",
			Resource:      cancha.Resource{BasePath: "/administrador", Singular: "administrador", Plural: "administradores"},
			Keys:          []string{"id_administrador"},
			Fields: []Field{
				{Name: "id_administrador", Label: "ID", Kind: KindNumber, ReadOnly: true},
				{Name: "nombre", Label: "Nombre", Kind: KindText, Required: true},
				{Name: "apellido", Label: "Apellido", Kind: KindText, Required: true},
				{Name: "correo", Label: "Correo", Kind: KindText, Required: true},
				{Name: "telefono", Label: "Teléfono", Kind: KindText},
			},
			ListFields:  []string{"id_administrador", "nombre", "apellido", "correo", "telefono"},
			Permissions: adminOnly,
		},
		{
			Slug:          "deportista",
			Title:         "Deportistas",
			TitleSingular: "Deportista",
			Resource:      cancha.Resource{BasePath: "/deportista", Singular: "deportista", Plural: "deportistas"},
			Keys:          []string{"id_deportista"},
			Fields: []Field{
				{Name: "id_deportista", Label: "ID", Kind: KindNumber, ReadOnly: true},
				{Name: "nombre", Label: "Nombre", Kind: KindText, Required: true},
				{Name: "apellido", Label: "Apellido", Kind: KindText, Required: true},
				{Name: "correo", Label: "Correo", Kind: KindText, Required: true},
				{Name: "telefono", Label: "Teléfono", Kind: KindText},
				{Name: "fecha_nacimiento", Label: "Fecha de nacimiento", Kind: KindDate},
				{Name: "disciplina", Label: "Disciplina", Kind: KindSelect, Options: disciplinaOptions},
			},
			ListFields:  []string{"id_deportista", "nombre", "apellido", "correo", "disciplina"},
			Filters:     disciplinaOptions,
			Permissions: adminManagesManagerReads,
		},
		{
			Slug:          "empresa",
			Title:         "Empresas",
			TitleSingular: "Empresa",
			Resource:      cancha.Resource{BasePath: "/empresa", Singular: "empresa", Plural: "empresas"},
			Keys:          []string{"id_empresa"},
			Fields: []Field{
				{Name: "id_empresa", Label: "ID", Kind: KindNumber, ReadOnly: true},
				{Name: "nombre", Label: "Nombre", Kind: KindText, Required: true},
				{Name: "nit", Label: "NIT", Kind: KindText, Required: true},
				{Name: "direccion", Label: "Dirección", Kind: KindText},
				{Name: "telefono", Label: "Teléfono", Kind: KindText},
				{Name: "correo", Label: "Correo", Kind: KindText},
			},
			ListFields:  []string{"id_empresa", "nombre", "nit", "telefono", "correo"},
			Permissions: adminOnly,
		},
		{
			Slug:          "espacio-deportivo",
			Title:         "Espacios deportivos",
			TitleSingular: "Espacio deportivo",
			Resource:      cancha.Resource{BasePath: "/espacio-deportivo", Singular: "espacioDeportivo", Plural: "espaciosDeportivos"},
			Keys:          []string{"id_espacio_deportivo"},
			Fields: []Field{
				{Name: "id_espacio_deportivo", Label: "ID", Kind: KindNumber, ReadOnly: true},
				{Name: "nombre", Label: "Nombre", Kind: KindText, Required: true},
				{Name: "disciplina", Label: "Disciplina", Kind: KindSelect, Required: true, Options: disciplinaOptions},
				{Name: "direccion", Label: "Dirección", Kind: KindText, Required: true},
				{Name: "capacidad", Label: "Capacidad", Kind: KindNumber, Min: number(1)},
				{Name: "precio_hora", Label: "Precio por hora", Kind: KindNumber, Required: true, Min: number(0)},
				{Name: "descripcion", Label: "Descripción", Kind: KindTextarea},
				{Name: "imagen", Label: "Imagen", Kind: KindFile},
				{Name: "id_empresa", Label: "Empresa", Kind: KindNumber},
			},
			ListFields:        []string{"id_espacio_deportivo", "nombre", "disciplina", "direccion", "precio_hora"},
			Filters:           disciplinaOptions,
			Permissions:       adminAndManager,
			ScopeParam:        "id_admin_esp_dep",
			ScopeProfileField: "id_admin_esp_dep",
		},
		{
			Slug:          "reserva",
			Title:         "Reservas",
			TitleSingular: "Reserva",
			Resource:      cancha.Resource{BasePath: "/reserva", Singular: "reserva", Plural: "reservas"},
			Keys:          []string{"id_reserva"},
			Fields: []Field{
				{Name: "id_reserva", Label: "ID", Kind: KindNumber, ReadOnly: true},
				{Name: "id_deportista", Label: "Deportista", Kind: KindNumber, Required: true},
				{Name: "id_espacio_deportivo", Label: "Espacio deportivo", Kind: KindNumber, Required: true},
				{Name: "fecha", Label: "Fecha", Kind: KindDate, Required: true},
				{Name: "monto_total", Label: "Monto total", Kind: KindNumber, Required: true, Min: number(0)},
				{Name: "saldo_pendiente", Label: "Saldo pendiente", Kind: KindNumber, Required: true, Min: number(0)},
				{Name: "estado", Label: "Estado", Kind: KindSelect, Required: true, Options: estadoReservaOptions},
			},
			Checks: []Check{
				{
					Name:    "saldo_within_monto",
					Message: "El saldo pendiente no puede ser mayor al monto total",
					Fn: func(values map[string]string) bool {
						monto, okM := parseNumber(values["monto_total"])
						saldo, okS := parseNumber(values["saldo_pendiente"])
						if !okM || !okS {
							return true
						}

						return saldo <= monto
					},
				},
			},
			ListFields:  []string{"id_reserva", "id_deportista", "id_espacio_deportivo", "fecha", "monto_total", "estado"},
			Filters:     estadoReservaOptions,
			Permissions: adminAndManager,
		},
		{
			Slug:          "reserva-horario",
			Title:         "Horarios de reserva",
			TitleSingular: "Horario de reserva",
			Resource:      cancha.Resource{BasePath: "/reserva-horario", Singular: "reservaHorario", Plural: "reservaHorarios"},
			Keys:          []string{"id_reserva_horario"},
			Fields: []Field{
				{Name: "id_reserva_horario", Label: "ID", Kind: KindNumber, ReadOnly: true},
				{Name: "id_reserva", Label: "Reserva", Kind: KindNumber, Required: true},
				{Name: "fecha", Label: "Fecha", Kind: KindDate, Required: true},
				{Name: "hora_inicio", Label: "Hora de inicio", Kind: KindTime, Required: true},
				{Name: "hora_fin", Label: "Hora de fin", Kind: KindTime, Required: true},
			},
			Checks:      []Check{hourOrder},
			ListFields:  []string{"id_reserva_horario", "id_reserva", "fecha", "hora_inicio", "hora_fin"},
			Permissions: adminAndManager,
		},
		{
			Slug:          "participa-en",
			Title:         "Participaciones",
			TitleSingular: "Participación",
			Resource:      cancha.Resource{BasePath: "/participa-en", Singular: "participaEn", Plural: "participaciones"},
			Keys:          []string{"id_reserva", "id_deportista"},
			Fields: []Field{
				{Name: "id_reserva", Label: "Reserva", Kind: KindNumber, Required: true},
				{Name: "id_deportista", Label: "Deportista", Kind: KindNumber, Required: true},
			},
			ListFields:  []string{"id_reserva", "id_deportista"},
			Permissions: adminOnly,
		},
		{
			Slug:          "reporte-incidencia",
			Title:         "Reportes de incidencia",
			TitleSingular: "Reporte de incidencia",
			Resource:      cancha.Resource{BasePath: "/reporte-incidencia", Singular: "reporteIncidencia", Plural: "reportesIncidencia"},
			Keys:          []string{"id_reporte_incidencia"},
			Fields: []Field{
				{Name: "id_reporte_incidencia", Label: "ID", Kind: KindNumber, ReadOnly: true},
				{Name: "id_espacio_deportivo", Label: "Espacio deportivo", Kind: KindNumber, Required: true},
				{Name: "fecha", Label: "Fecha", Kind: KindDate, Required: true},
				{Name: "descripcion", Label: "Descripción", Kind: KindTextarea, Required: true},
				{Name: "detalle", Label: "Detalle", Kind: KindTextarea},
			},
			ListFields:  []string{"id_reporte_incidencia", "id_espacio_deportivo", "fecha", "descripcion"},
			Permissions: adminAndManager,
		},
		{
			Slug:          "solicitud-control",
			Title:         "Solicitudes de control",
			TitleSingular: "Solicitud de control",
			Resource:      cancha.Resource{BasePath: "/solicitud-control", Singular: "solicitudControl", Plural: "solicitudesControl"},
			Keys:          []string{"id_solicitud_control"},
			Fields: []Field{
				{Name: "id_solicitud_control", Label: "ID", Kind: KindNumber, ReadOnly: true},
				{Name: "id_deportista", Label: "Deportista", Kind: KindNumber, Required: true},
				{Name: "id_espacio_deportivo", Label: "Espacio deportivo", Kind: KindNumber, Required: true},
				{Name: "fecha", Label: "Fecha", Kind: KindDate, Required: true},
				{Name: "estado", Label: "Estado", Kind: KindSelect, Required: true, Options: estadoSolicitudOptions},
			},
			ListFields:  []string{"id_solicitud_control", "id_deportista", "id_espacio_deportivo", "fecha", "estado"},
			Filters:     estadoSolicitudOptions,
			Permissions: adminManagesManagerReads,
		},
		{
			Slug:          "qr-control",
			Title:         "Códigos QR de control",
			TitleSingular: "Código QR de control",
			Resource:      cancha.Resource{BasePath: "/qr-control", Singular: "qrControl", Plural: "qrControles"},
			Keys:          []string{"id_qr_control"},
			Fields: []Field{
				{Name: "id_qr_control", Label: "ID", Kind: KindNumber, ReadOnly: true},
				{Name: "id_reserva", Label: "Reserva", Kind: KindNumber, Required: true},
				{Name: "codigo", Label: "Código", Kind: KindText, Required: true},
				{Name: "fecha_expiracion", Label: "Fecha de expiración", Kind: KindDate},
				{Name: "usado", Label: "Usado", Kind: KindSelect, Options: []Option{
					{Value: "false", Label: "No"},
					{Value: "true", Label: "Sí"},
				}},
			},
			ListFields:  []string{"id_qr_control", "id_reserva", "codigo", "fecha_expiracion", "usado"},
			Permissions: adminManagesManagerReads,
		},
		{
			Slug:          "pago",
			Title:         "Pagos",
			TitleSingular: "Pago",
			Resource:      cancha.Resource{BasePath: "/pago", Singular: "pago", Plural: "pagos"},
			Keys:          []string{"id_pago"},
			Fields: []Field{
				{Name: "id_pago", Label: "ID", Kind: KindNumber, ReadOnly: true},
				{Name: "id_reserva", Label: "Reserva", Kind: KindNumber, Required: true},
				{Name: "monto", Label: "Monto", Kind: KindNumber, Required: true, Min: number(0)},
				{Name: "fecha", Label: "Fecha", Kind: KindDate, Required: true},
				{Name: "metodo", Label: "Método", Kind: KindSelect, Required: true, Options: metodoPagoOptions},
			},
			ListFields:  []string{"id_pago", "id_reserva", "monto", "fecha", "metodo"},
			Filters:     metodoPagoOptions,
			Permissions: adminOnly,
		},
		{
			Slug:          "resena",
			Title:         "Reseñas",
			TitleSingular: "Reseña",
			Resource:      cancha.Resource{BasePath: "/resena", Singular: "resena", Plural: "resenas"},
			Keys:          []string{"id_resena"},
			Fields: []Field{
				{Name: "id_resena", Label: "ID", Kind: KindNumber, ReadOnly: true},
				{Name: "id_deportista", Label: "Deportista", Kind: KindNumber, Required: true},
				{Name: "id_espacio_deportivo", Label: "Espacio deportivo", Kind: KindNumber, Required: true},
				{Name: "calificacion", Label: "Calificación", Kind: KindNumber, Required: true, Min: number(1), Max: number(5)},
				{Name: "comentario", Label: "Comentario", Kind: KindTextarea},
				{Name: "fecha", Label: "Fecha", Kind: KindDate},
			},
			ListFields:  []string{"id_resena", "id_deportista", "id_espacio_deportivo", "calificacion", "fecha"},
			Permissions: adminManagesManagerReads,
		},
	}
}

// BySlug returns the schema of one screen, or nil.
func BySlug(slug string) *Schema {
	for _, schema := range Catalog() {
		if schema.Slug == slug {
			return schema
		}
	}

	return nil
}
