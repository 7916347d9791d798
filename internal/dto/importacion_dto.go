package dto

// ErrorFila reports one rejected spreadsheet row. Fila is the 1-based sheet
// row number (the header is row 1).
type ErrorFila struct {
	Fila    int    `json:"fila"`
	Mensaje string `json:"mensaje"`
}

// ReporteImportacion is returned even when every row failed; callers decide
// whether zero successes is an error.
type ReporteImportacion struct {
	Creados      int         `json:"creados"`
	Actualizados int         `json:"actualizados"`
	Errores      []ErrorFila `json:"errores"`
}
