// Package local implements backend.Backend in process.
//
// The backend keeps the folder state in persistence.yml (yaml.v3), loads the
// project zone table from lookup_tables/zones.yml and watches
// <project>/raw_data with fsnotify, turning creations and removals of export
// files into file-change events.
//
// Conversions are delegated to a Converter. ExecConverter shells out to an
// external tool; tests supply a fake. Every request emits Working at once and
// a terminal event when a worker slot has run it. Events carry the project
// that was active at request time.
//
// Project layout:
//
//	<project>/raw_data/...            export files (.yml)
//	<project>/generated_dats/...      generated DATs (.DAT)
//	<project>/lookup_tables/zones.yml zone id -> {display_name, file_name}
package local
