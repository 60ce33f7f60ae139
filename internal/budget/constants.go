package budget

// Fixed model parameters. These are part of the published method and are kept
// literal; changing any of them changes every budget produced.
const (
	// UnitReconstructionValue (VRN) is the reconstruction value per square
	// meter, in currency units.
	UnitReconstructionValue = 1050.0

	// ReferenceYear is the year building age is measured against.
	ReferenceYear = 2026

	// OrdinaryBaseRate is the share of the age and density adjusted
	// reconstruction value set aside for ordinary maintenance.
	OrdinaryBaseRate = 0.014

	// ExtraordinaryBaseRate is the share of the age adjusted reconstruction
	// value accrued as extraordinary reserve.
	ExtraordinaryBaseRate = 0.007

	// IncidenceThresholdPercent is the budget-to-revenue percentage above
	// which an asset is flagged critical.
	IncidenceThresholdPercent = 10.0

	// PercentMultiplier converts a ratio into a percentage.
	PercentMultiplier = 100.0
)

// Age bands for the vetusty coefficient. Both edges belong to the middle band.
const (
	AgeBandYoungUpper  = 15 // age < 15 is young
	AgeBandMiddleUpper = 30 // 15 <= age <= 30 is middle aged

	VetustyYoung  = 1.0
	VetustyMiddle = 1.2
	VetustyOld    = 1.4
)

// Density bands, in square meters per occupant. A density of exactly 20 is
// in the middle band; the low coefficient requires strictly more than 20.
const (
	DensityBandLowerEdge = 15.0
	DensityBandUpperEdge = 20.0

	DensitySparse   = 1.0
	DensityModerate = 1.25
	DensityCrowded  = 1.5
)
