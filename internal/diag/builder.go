package diag

import "ownership/internal/source"

func New(sev Severity, code Code, primary source.Site, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
		Notes:    nil,
		Fixes:    nil,
	}
}

func (d Diagnostic) WithNote(site source.Site, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Site: site, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(title, replacement string) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Replacement: replacement})
	return d
}
