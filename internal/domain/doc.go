// Package domain models Indian National Water Monitoring Programme (NWMP)
// river water-quality samples and the composite River Water Quality Index
// (RWQI) derived from them.
//
// # Data Source
//
// Raw samples come from open-data catalog resources published by state
// pollution control boards. Each resource is a flat table of monitoring
// station readings; column names vary by publisher ("Dissolved_Oxygen" vs
// "D_O", "Total_Coliform" vs "Coliform", and so on), and numeric cells often
// carry units or stray punctuation ("6.5 mg/l"). [Normalize] maps each raw
// record onto the four canonical parameters through an ordered field-variant
// table; values that do not parse to a finite number are absent, never zero.
//
// # RWQI Computation
//
// Each parameter has its own response curve producing a 0–100 sub-index:
//
//	DO:        min(100, value / excellent_do * 100)
//	BOD:       max(0, 100 * (1 - value / (2 * moderate_bod)))
//	pH:        100 inside [min_ph, max_ph], else max(0, 100 - |value-7.5| * 20)
//	Coliforms: max(0, 100 - log10(value+1) * 20)
//
// The composite score is the weighted mean over only the parameters present
// in the selected sample. A sample with no usable parameters yields a nil
// score and nil category. Scores classify highest-first: ≥90 Excellent,
// ≥75 Good, ≥50 Moderate, ≥25 Poor, otherwise Bad.
package domain
