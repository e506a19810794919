package capabilities

// CapabilityCheck identifica la consulta de tier: qué usuario y qué feature.
// Los nombres de feature son convención de producto, p.ej.
// "routines:unlimited" o "brumation:track".
type CapabilityCheck struct {
	UserID  string
	Feature string
}
