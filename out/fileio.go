// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	goio "io"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/io"
	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cpmech/gofermi/fermi"
)

// Encoder defines encoders; e.g. gob, json or yaml
type Encoder interface {
	Encode(e interface{}) error
}

// Decoder defines decoders; e.g. gob, json or yaml
type Decoder interface {
	Decode(e interface{}) error
}

// GetEncoder returns a new encoder
//  Note: the yaml encoder must be closed (see goio.Closer) to flush its output
func GetEncoder(w goio.Writer, enctype string) Encoder {
	switch enctype {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc
	case "yaml":
		return yaml.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// GetDecoder returns a new decoder
func GetDecoder(r goio.Reader, enctype string) Decoder {
	switch enctype {
	case "json":
		return json.NewDecoder(r)
	case "yaml":
		return yaml.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// ResultsPath returns the path of a results file
func ResultsPath(dir, fnkey, enctype string) string {
	return filepath.Join(dir, io.Sf("%s_results.%s", fnkey, enctype))
}

// SaveResults saves results to dir/fnkey_results.enctype
func SaveResults(dir, fnkey, enctype string, res *fermi.Results, verbose bool) (fn string, err error) {

	// buffer and encoder
	var buf bytes.Buffer
	enc := GetEncoder(&buf, enctype)

	// encode results
	err = enc.Encode(res)
	if err != nil {
		return "", pkgerrors.Wrapf(err, "cannot encode results")
	}
	if closer, ok := enc.(goio.Closer); ok {
		err = closer.Close()
		if err != nil {
			return "", pkgerrors.Wrapf(err, "cannot flush results")
		}
	}

	// save file
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return "", pkgerrors.Wrapf(err, "cannot create directory for results %q", dir)
	}
	fn = ResultsPath(dir, fnkey, enctype)
	err = saveFile(fn, &buf, verbose)
	return
}

// ReadResults reads results back
func ReadResults(dir, fnkey, enctype string) (res *fermi.Results, err error) {

	// open file
	fn := ResultsPath(dir, fnkey, enctype)
	fil, err := os.Open(fn)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "cannot open results file")
	}
	defer fil.Close()

	// decode
	res = new(fermi.Results)
	err = GetDecoder(fil, enctype).Decode(res)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "cannot decode results file %q", fn)
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func saveFile(filename string, buf *bytes.Buffer, verbose bool) (err error) {
	fil, err := os.Create(filename)
	if err != nil {
		return pkgerrors.Wrapf(err, "cannot create file")
	}
	defer func() {
		if e := fil.Close(); e != nil && err == nil {
			err = pkgerrors.Wrapf(e, "cannot close file %q", filename)
		}
	}()
	_, err = fil.Write(buf.Bytes())
	if err != nil {
		return pkgerrors.Wrapf(err, "cannot write file %q", filename)
	}
	if verbose {
		io.Pfblue2("file <%s> written\n", filename)
	}
	return
}
