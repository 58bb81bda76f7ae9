package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
)

//go:embed *.tmpl
var FS embed.FS

// TemplateActivateAccount and TemplateResetPassword are the base names
// the email worker knows how to render.
const (
	TemplateActivateAccount = "activate_account"
	TemplateResetPassword   = "reset_password"
)

// NewActivateAccountData builds the data map for the account activation email.
func NewActivateAccountData(appName, email, code string, expiresMinutes int) map[string]any {
	return map[string]any{
		"AppName":        appName,
		"Email":          email,
		"Code":           code,
		"ExpiresMinutes": expiresMinutes,
	}
}

// NewResetPasswordData builds the data map for the password reset email.
func NewResetPasswordData(appName, email, code string, expiresMinutes int) map[string]any {
	return map[string]any{
		"AppName":        appName,
		"Email":          email,
		"Code":           code,
		"ExpiresMinutes": expiresMinutes,
	}
}

// renderFile loads and renders a single template file from the embedded FS.
func renderFile(filename string, isHTML bool, data any) (string, error) {
	var (
		buf bytes.Buffer
		err error
	)

	if isHTML {
		tpl, e := htmpl.New(filename).ParseFS(FS, filename)
		if e != nil {
			return "", fmt.Errorf("parse html %q: %w", filename, e)
		}
		err = tpl.Execute(&buf, data)
	} else {
		tpl, e := texttpl.New(filename).ParseFS(FS, filename)
		if e != nil {
			return "", fmt.Errorf("parse text %q: %w", filename, e)
		}
		err = tpl.Execute(&buf, data)
	}
	if err != nil {
		return "", fmt.Errorf("exec %q: %w", filename, err)
	}
	return buf.String(), nil
}

// Render loads and renders subject, text, and html templates for the given
// base name. Expects: <name>.subject.tmpl, <name>.text.tmpl, <name>.html.tmpl
func Render(name string, data any) (subject string, text string, html string, err error) {
	subject, err = renderFile(name+".subject.tmpl", false, data)
	if err != nil {
		return "", "", "", err
	}
	text, err = renderFile(name+".text.tmpl", false, data)
	if err != nil {
		return "", "", "", err
	}
	html, err = renderFile(name+".html.tmpl", true, data)
	if err != nil {
		return "", "", "", err
	}
	return subject, text, html, nil
}
