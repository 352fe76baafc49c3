package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
}

type enquiryEmailData struct {
	baseEmailData
	Enquiry
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func renderEnquiryConfirmation(enquiry Enquiry) (string, error) {
	return renderEmailTemplate("enquiry_confirmation.html", enquiryEmailData{
		baseEmailData: baseEmailData{
			Title:      "Thank you for your enquiry",
			Heading:    "Thank you, " + enquiry.CustomerName,
			Subheading: "We have received your quote and will be in touch shortly.",
		},
		Enquiry: enquiry,
	})
}

func renderNewEnquiryAlert(enquiry Enquiry) (string, error) {
	return renderEmailTemplate("new_enquiry.html", enquiryEmailData{
		baseEmailData: baseEmailData{
			Title:   "New enquiry",
			Heading: "New enquiry received",
		},
		Enquiry: enquiry,
	})
}
