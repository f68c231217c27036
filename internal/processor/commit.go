package processor

import (
	"bufio"
	"fmt"
	"io"
	"log"
)

const (
	beginMarker = "BEGIN TRANSACTION;\n"
	endMarker   = "END TRANSACTION;\n"

	commitBufferSize = 256 << 10
)

// WriteError reports a failure to write the script. Output already written is
// not rolled back; the transaction markers make a truncated script fail as a
// whole when applied.
type WriteError struct {
	Section string
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("commit: write %s: %v", e.Section, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Commit writes the queued statements to w:
//
//	[schema DDL]
//	BEGIN TRANSACTION;
//	<sets>
//	<cards and their faces>
//	<editions>
//	END TRANSACTION;
//
// Each statement group is newline-terminated. Commit must only be called
// after every Process call has returned. The first write error aborts the
// commit and is returned as a *WriteError.
func (p *Processor) Commit(w io.Writer) error {
	bw := bufio.NewWriterSize(w, commitBufferSize)

	if p.emitSchema {
		ddl, err := p.r.SchemaDDL()
		if err != nil {
			return fmt.Errorf("commit: render schema: %w", err)
		}
		if _, err := io.WriteString(bw, ddl); err != nil {
			return &WriteError{Section: "schema", Err: err}
		}
	}

	if _, err := io.WriteString(bw, beginMarker); err != nil {
		return &WriteError{Section: "begin", Err: err}
	}

	sections := []struct {
		name  string
		stmts []string
	}{
		{"sets", p.setQ.snapshot()},
		{"cards", p.cardQ.snapshot()},
		{"editions", p.editionQ.snapshot()},
	}
	for _, s := range sections {
		for _, stmt := range s.stmts {
			if _, err := io.WriteString(bw, stmt); err != nil {
				return &WriteError{Section: s.name, Err: err}
			}
			if err := bw.WriteByte('\n'); err != nil {
				return &WriteError{Section: s.name, Err: err}
			}
		}
	}

	if _, err := io.WriteString(bw, endMarker); err != nil {
		return &WriteError{Section: "end", Err: err}
	}
	if err := bw.Flush(); err != nil {
		return &WriteError{Section: "flush", Err: err}
	}

	log.Printf("processor: commit sets=%d cards=%d editions=%d elapsed=%s",
		len(sections[0].stmts), len(sections[1].stmts), len(sections[2].stmts), p.Elapsed())
	return nil
}
