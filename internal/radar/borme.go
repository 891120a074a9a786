package radar

import "leadradar/internal/signals"

// NewBORME returns the company-registry collector (dissolutions, insolvency,
// liquidations published in the BORME gazette).
func NewBORME(now Clock) Collector {
	return newPoolCollector(signals.SourceBORME, bormePool, now)
}

var bormePool = []signals.RawSignal{
	{
		Name:        "Miguel Ángel Serrano",
		RoleCompany: "Administrador Único, Serrano Logística S.L.",
		Location:    "Madrid",
		Trigger:     "Disolución",
		Excerpt:     "Publicada disolución voluntaria de Serrano Logística S.L. en el BORME. La empresa facturaba 8M€ anuales en transporte frigorífico.",
		FullSource:  "BORME núm. 45/2025 — Actos inscritos: SERRANO LOGÍSTICA S.L. (CIF: B-12345678). Domicilio social: Calle Alcalá 200, Madrid. Objeto social: Transporte de mercancías refrigeradas. DISOLUCIÓN VOLUNTARIA acordada en Junta General Extraordinaria de fecha 15/02/2025. Nombramiento de liquidador: D. Miguel Ángel Serrano García, DNI 50.XXX.XXX-Y. La sociedad pasa a denominarse \"Serrano Logística S.L. en liquidación\".",
		SourceURL:   "https://www.boe.es/borme/dias/2025/02/20/",
	},
	{
		Name:        "Familia Gutiérrez-Blanco",
		RoleCompany: "Socios, Manufacturas Gutiérrez S.A.",
		Location:    "Bilbao",
		Trigger:     "Concurso de Acreedores",
		Excerpt:     "Manufacturas Gutiérrez S.A. ha entrado en concurso de acreedores voluntario. Historial de 50 años en el sector metalúrgico.",
		FullSource:  "BORME núm. 47/2025 — MANUFACTURAS GUTIÉRREZ S.A. (CIF: A-48XXXXXX). Domicilio: Polígono Industrial Arasur, Bilbao. DECLARACIÓN DE CONCURSO VOLUNTARIO. Auto del Juzgado de lo Mercantil nº2 de Bilbao de fecha 18/02/2025. Administrador concursal designado: Deloitte Reestructuración S.L. La empresa cuenta con 120 empleados y una deuda declarada de 12M€. Activos principales: nave industrial de 15.000m² y maquinaria especializada.",
		SourceURL:   "https://www.boe.es/borme/dias/2025/02/22/",
	},
	{
		Name:        "Rosa María Castillo",
		RoleCompany: "Fundadora y CEO, Castillo Alimentación S.L.",
		Location:    "Sevilla",
		Trigger:     "Liquidación",
		Excerpt:     "Castillo Alimentación S.L. inicia proceso de liquidación tras 35 años en el sector agroalimentario andaluz.",
		FullSource:  "BORME núm. 50/2025 — CASTILLO ALIMENTACIÓN S.L. (CIF: B-41XXXXXX). Domicilio: Parque Empresarial Torneo, Sevilla. LIQUIDACIÓN. Inscripción de escritura de disolución y apertura del periodo de liquidación. Liquidadora: Dña. Rosa María Castillo López. La sociedad, fundada en 1990, era referente en distribución de productos gourmet andaluces con presencia en 8 comunidades autónomas. Facturación último ejercicio: 4.2M€.",
		SourceURL:   "https://www.boe.es/borme/dias/2025/02/25/",
	},
}
