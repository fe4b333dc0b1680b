package tramite

import "github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"

// IdentityContext carries the ownership of the selected catalog entities.
// An empty owner field means the referenced entity was not found.
type IdentityContext struct {
	Identity
	InmobiliariaFound      bool
	InmobiliariaClienteID  string
	ProyectoFound          bool
	ProyectoInmobiliariaID string
	ProyectoCantonID       string
}

// CheckIdentity evaluates the hierarchy of the selection.
// Rules:
// - the inmobiliaria exists and belongs to the cliente
// - the proyecto exists and belongs to the inmobiliaria and the cantón
func CheckIdentity(ctx IdentityContext) []errs.FieldError {
	var out []errs.FieldError
	if ctx.InmobiliariaID != "" {
		switch {
		case !ctx.InmobiliariaFound:
			out = append(out, FieldError(FieldInmobiliaria, "inmobiliaria %s not found", ctx.InmobiliariaID))
		case ctx.ClienteID != "" && ctx.InmobiliariaClienteID != ctx.ClienteID:
			out = append(out, FieldError(FieldInmobiliaria, "inmobiliaria %s does not belong to cliente %s", ctx.InmobiliariaID, ctx.ClienteID))
		}
	}
	if ctx.ProyectoID != "" {
		if !ctx.ProyectoFound {
			return append(out, FieldError(FieldProyecto, "proyecto %s not found", ctx.ProyectoID))
		}
		if ctx.InmobiliariaID != "" && ctx.ProyectoInmobiliariaID != ctx.InmobiliariaID {
			out = append(out, FieldError(FieldProyecto, "proyecto %s does not belong to inmobiliaria %s", ctx.ProyectoID, ctx.InmobiliariaID))
		}
		if ctx.CantonID != "" && ctx.ProyectoCantonID != ctx.CantonID {
			out = append(out, FieldError(FieldProyecto, "proyecto %s is not in cantón %s", ctx.ProyectoID, ctx.CantonID))
		}
	}
	return out
}
