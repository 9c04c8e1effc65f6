// Package domain models subnational rainfall observations and their derived
// flood-risk features.
//
// # Data Source
//
// Observations come from HDX (Humanitarian Data Exchange) subnational rainfall
// exports, e.g. "ken-rainfall-subnat": one CSV row per administrative unit per
// day, keyed by PCODE. The loader package parses these files; the core only
// ever sees in-memory Observation values.
//
// # HDX Data Conventions
//
// PCODE:
//
//	Place code identifying an administrative unit (e.g. "KE001" for a Kenyan
//	county). Each PCODE's rainfall series is an independent time series;
//	no derived statistic ever mixes observations across PCODEs.
//
// rfh:
//
//	Rainfall for the observation date in millimetres. Empty values occur in
//	real exports when a unit has no reading for a date; the loader skips them
//	rather than letting NaN propagate through the rolling statistics.
//
// # Derived Features
//
// FeatureRow extends an Observation with rolling statistics computed by the
// feature package:
//
//	rain_mean, rain_std: trailing 14-observation mean and sample standard
//	  deviation within the PCODE, defined once at least 7 observations exist
//	  (nil pointers before that).
//	z_score: (rainfall - rain_mean) / (rain_std + 1e-3). The epsilon keeps a
//	  flat window (std = 0) from dividing by zero.
//	is_anomaly: |z_score| > 3. Nil whenever the window statistics are nil.
//	rain_3d, rain_7d: trailing 3- and 7-observation sums, defined from the
//	  first observation of the PCODE onward.
//
// # Risk Classification
//
// risk_level is a three-level rule-based label derived from one row's own
// features, first match wins:
//
//	High (2):   anomalous with ≥50mm in a day, or ≥130mm over 3 days,
//	            or ≥200mm over 7 days.
//	Medium (1): anomalous, or ≥30mm in a day, or ≥80mm over 3 days,
//	            or ≥120mm over 7 days.
//	Low (0):    otherwise.
//
// The thresholds are rule-of-thumb constants carried over from the original
// analysis; see [DefaultRiskThresholds].
package domain
