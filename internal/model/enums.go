package model

// Categoria is the closed set of product categories.
type Categoria string

const (
	CategoriaComputadoras Categoria = "COMPUTADORAS"
	CategoriaLaptops      Categoria = "LAPTOPS"
	CategoriaUPS          Categoria = "UPS"
	CategoriaPerifericos  Categoria = "PERIFERICOS"
)

// Categorias lists every category in display order.
var Categorias = []Categoria{CategoriaComputadoras, CategoriaLaptops, CategoriaUPS, CategoriaPerifericos}

func (c Categoria) Valida() bool {
	switch c {
	case CategoriaComputadoras, CategoriaLaptops, CategoriaUPS, CategoriaPerifericos:
		return true
	}
	return false
}

func (c Categoria) Etiqueta() string {
	switch c {
	case CategoriaComputadoras:
		return "Computadoras"
	case CategoriaLaptops:
		return "Laptops"
	case CategoriaUPS:
		return "UPS"
	case CategoriaPerifericos:
		return "Periféricos"
	}
	return string(c)
}

// MotivoSalida is the reason recorded for a withdrawal.
type MotivoSalida string

const (
	MotivoVenta      MotivoSalida = "VENTA"
	MotivoGarantia   MotivoSalida = "GARANTIA"
	MotivoDevolucion MotivoSalida = "DEVOLUCION"
	MotivoDonacion   MotivoSalida = "DONACION"
	MotivoOtro       MotivoSalida = "OTRO"
)

func (m MotivoSalida) Valido() bool {
	switch m {
	case MotivoVenta, MotivoGarantia, MotivoDevolucion, MotivoDonacion, MotivoOtro:
		return true
	}
	return false
}

func (m MotivoSalida) Etiqueta() string {
	switch m {
	case MotivoVenta:
		return "Venta"
	case MotivoGarantia:
		return "Garantía"
	case MotivoDevolucion:
		return "Devolución al proveedor"
	case MotivoDonacion:
		return "Donación"
	case MotivoOtro:
		return "Otro"
	}
	return string(m)
}

// TipoMovimiento classifies journal entries.
type TipoMovimiento string

const (
	TipoCreacion        TipoMovimiento = "CREACION"
	TipoEdicion         TipoMovimiento = "EDICION"
	TipoEliminacion     TipoMovimiento = "ELIMINACION"
	TipoSalida          TipoMovimiento = "SALIDA"
	TipoDeshabilitacion TipoMovimiento = "DESHABILITACION"
)

func (t TipoMovimiento) Valido() bool {
	switch t {
	case TipoCreacion, TipoEdicion, TipoEliminacion, TipoSalida, TipoDeshabilitacion:
		return true
	}
	return false
}

func (t TipoMovimiento) Etiqueta() string {
	switch t {
	case TipoCreacion:
		return "Creación"
	case TipoEdicion:
		return "Edición"
	case TipoEliminacion:
		return "Eliminación"
	case TipoSalida:
		return "Salida"
	case TipoDeshabilitacion:
		return "Deshabilitación"
	}
	return string(t)
}
