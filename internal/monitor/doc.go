// Package monitor watches the dataset directory and drives the analysis
// pipeline: every new or changed *.csv file is loaded, summarised into a
// study report, stored in the registry, and handed to the alert engine.
// A periodic rescan backs up the filesystem events so nothing is missed,
// and removed files drop out of the registry.
package monitor
