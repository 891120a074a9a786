package radar

import "leadradar/internal/signals"

// NewTraspasos returns the business-transfer listings collector.
func NewTraspasos(now Clock) Collector {
	return newPoolCollector(signals.SourceTraspasos, traspasosPool, now)
}

var traspasosPool = []signals.RawSignal{
	{
		Name:        "Antonio Ruiz",
		RoleCompany: "Propietario, Taller Mecánico AutoRuiz",
		Location:    "Zaragoza",
		Trigger:     "Traspaso por Jubilación",
		Excerpt:     "Se traspasa taller mecánico de 40 años de antigüedad por jubilación del propietario. Cartera de 800 clientes fijos.",
		FullSource:  "TRASPASO TALLER MECÁNICO EN ZARAGOZA — Motivo: jubilación del propietario tras 40 años de actividad. Taller de 350m² con 4 elevadores, equipamiento completo y cabina de pintura. Cartera de 800 clientes fijos con facturación recurrente. Facturación media anual: 450.000€. Personal: 3 empleados formados que desean continuar. Ubicación premium en Delicias con alto tráfico. El propietario ofrece periodo de transición de 6 meses. Precio negociable para comprador serio. Contacto: Antonio Ruiz.",
		SourceURL:   "https://example.com/traspaso/taller-zaragoza",
	},
	{
		Name:        "Carmen López",
		RoleCompany: "Dueña, Restaurante La Encina",
		Location:    "Toledo",
		Trigger:     "Venta de Negocio",
		Excerpt:     "Venta urgente de restaurante con estrella Michelin por problemas de salud. Localización privilegiada en casco histórico.",
		FullSource:  "VENTA RESTAURANTE CON ESTRELLA MICHELIN — Toledo casco histórico. Restaurante \"La Encina\" con 25 años de historia y reconocimiento gastronómico. Motivo de venta: problemas de salud de la propietaria que impiden continuar con la gestión diaria. Local de 200m² con terraza de 80m². Capacidad 60 comensales. Cocina industrial equipada valorada en 180.000€. Marca consolidada con presencia en guías gastronómicas. Facturación 2024: 1.2M€. Incluye licencias, marca registrada y recetario. Se valorará comprador que respete la filosofía del restaurante. Carmen López.",
		SourceURL:   "https://example.com/traspaso/restaurante-toledo",
	},
	{
		Name:        "Hermanos Ferrer",
		RoleCompany: "Socios, Distribuidora Ferrer e Hijos",
		Location:    "Alicante",
		Trigger:     "Venta de lote industrial",
		Excerpt:     "Se vende distribuidora de materiales de construcción completa. Los socios no llegan a acuerdo sobre el futuro de la empresa.",
		FullSource:  "VENTA EMPRESA DE DISTRIBUCIÓN — Distribuidora Ferrer e Hijos, Alicante. Empresa familiar de segunda generación especializada en materiales de construcción. Motivo: desacuerdo entre los tres hermanos socios sobre la dirección estratégica. Disponen de: 2 naves industriales (2.500m² total), flota de 8 camiones, cartera de 200 clientes profesionales en toda la provincia de Alicante. Stock valorado en 600.000€. Facturación 2024: 3.8M€. Se vende como lote completo. Los socios prefieren venta rápida y discreta. Intermediarios abstenerse.",
		SourceURL:   "https://example.com/traspaso/distribuidora-alicante",
	},
}
