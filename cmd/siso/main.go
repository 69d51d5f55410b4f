// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/TheBB/CICO/api"
	"github.com/TheBB/CICO/config"
	"github.com/TheBB/CICO/coord"
	"github.com/TheBB/CICO/pipeline"
	"github.com/TheBB/CICO/reader"
	"github.com/TheBB/CICO/writer"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	// input parameters
	infile, _ := io.ArgToFilename(0, "", "", true)
	outfile, _ := io.ArgToFilename(1, "", "", false)
	cfgfile, _ := io.ArgToFilename(2, "", ".json", false)
	verbose := io.ArgToBool(3, true)

	if verbose {
		io.PfWhite("\nsiso -- scientific simulation format conversion\n\n")
		io.Pf("\n%v\n", io.ArgsTable(
			"input path", "infile", infile,
			"output path", "outfile", outfile,
			"settings file", "cfgfile", cfgfile,
		))
	}

	settings, err := config.Read(cfgfile)
	if err != nil {
		chk.Panic("reading settings: %v", err)
	}

	registry := reader.NewRegistry(reader.PureGeometryReader{})
	source, err := registry.Open(infile)
	if err != nil {
		chk.Panic("opening %q: %v", infile, err)
	}
	defer source.Close()

	out, err := os.Create(outfile)
	if err != nil {
		chk.Panic("creating %q: %v", outfile, err)
	}
	defer out.Close()

	sink := writer.NewRaw(out, api.Requirements{})
	defer sink.Close()

	var outCoords api.CoordinateSystem
	if settings.OutCoords != "" {
		outCoords, err = coord.FindSystem(settings.OutCoords)
		if err != nil {
			chk.Panic("parsing out-coords %q: %v", settings.OutCoords, err)
		}
	}

	opts := pipeline.Options{
		Strict:               settings.Strict,
		BasisNames:           settings.Basis,
		Nvis:                 settings.Nvis,
		ForceUnstructured:    settings.ForceUnstructured,
		Decompose:            settings.Decompose,
		EigenDisp:            settings.EigenDisp,
		FieldNames:           settings.Fields,
		FieldFilterRequested: len(settings.Fields) > 0,
		InCoords:             settings.InCoords,
		OutCoords:            outCoords,
		Steps: pipeline.StepSelection{
			Start:    settings.Steps.Start,
			Stop:     settings.Steps.Stop,
			Step:     settings.Steps.Step,
			LastTime: settings.Steps.LastTime,
		},
	}

	converted, err := pipeline.Assemble(source, sink.Properties(), opts)
	if err != nil {
		chk.Panic("assembling pipeline: %v", err)
	}

	var geometry api.Field
	if bases := converted.Bases(); len(bases) > 0 {
		if geoms := converted.Geometries(bases[0]); len(geoms) > 0 {
			geometry = geoms[0]
		}
	}

	sink.Configure(api.WriterSettings{OutputMode: api.OutputMode(settings.OutputMode)})
	if err := sink.Consume(converted, geometry); err != nil {
		chk.Panic("writing %q: %v", outfile, err)
	}

	if verbose {
		io.Pf("\ndone\n")
	}
}
