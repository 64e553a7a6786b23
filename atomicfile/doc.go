/*
Package atomicfile writes files atomically.

Data is written to a temporary file in the destination directory and
renamed over the destination only on a successful Close. If Write or
Close fails, the temporary file is removed and the destination is left
as it was. Under this scheme a concurrent reader always sees either the
old complete file or the new complete file, never a half-written one.

	err := atomicfile.WriteFile("catalog.json", data)

or, for streaming writes:

	f, err := atomicfile.New("catalog.json")
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Close()
*/
package atomicfile
