package stage

import "fmt"

// Estado is the status label for the furthest-reached phase of a trámite.
type Estado string

const (
	EstadoIniciado            Estado = "INICIADO"
	EstadoLiquidacionImpuesto Estado = "LIQUIDACION_IMPUESTO"
	EstadoAprobacionProforma  Estado = "APROBACION_PROFORMA"
	EstadoLiquidacionAprobada Estado = "LIQUIDACION_APROBADA"
	EstadoFirmaMatriz         Estado = "FIRMA_MATRIZ"
	EstadoInscripcion         Estado = "INSCRIPCION"
	EstadoCatastro            Estado = "CATASTRO"
	EstadoFinalizado          Estado = "FINALIZADO"
)

// estados lists every estado in lifecycle order.
var estados = []Estado{
	EstadoIniciado,
	EstadoLiquidacionImpuesto,
	EstadoAprobacionProforma,
	EstadoLiquidacionAprobada,
	EstadoFirmaMatriz,
	EstadoInscripcion,
	EstadoCatastro,
	EstadoFinalizado,
}

// Estados returns every estado in lifecycle order.
func Estados() []Estado {
	out := make([]Estado, len(estados))
	copy(out, estados)
	return out
}

// Rank returns the position of e in the lifecycle, or -1 when e is unknown.
func (e Estado) Rank() int {
	for i, s := range estados {
		if s == e {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether e is the final estado.
func (e Estado) IsTerminal() bool {
	return e == EstadoFinalizado
}

// ParseEstado validates a backend-supplied estado label.
// The empty string is accepted and returned as-is (estado not reported).
func ParseEstado(s string) (Estado, error) {
	if s == "" {
		return "", nil
	}
	e := Estado(s)
	if e.Rank() < 0 {
		return "", fmt.Errorf("unknown estado %q", s)
	}
	return e, nil
}

// DeriveEstado projects the estado from the stage dates: the record sits in
// the first phase that still has an unset stage, or FINALIZADO when every
// stage is set.
func DeriveEstado(d Dates) Estado {
	for _, e := range estados {
		if e == EstadoFinalizado {
			break
		}
		for _, s := range schema {
			if s.Phase != e {
				continue
			}
			if _, ok := d.Get(s); !ok {
				return e
			}
		}
	}
	return EstadoFinalizado
}

// InitialEstado returns the estado of a freshly created trámite.
func InitialEstado() Estado {
	return EstadoIniciado
}
