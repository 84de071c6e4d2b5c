package services

import (
	"bytes"
	htmltemplate "html/template"
	texttemplate "text/template"
)

type messageData struct {
	IsGPS     bool
	Heading   string
	FullName  string
	Phone     string
	Machine   string
	IssueType string
	Issue     string
	FilePath  string
	MimeType  string
	FileSize  string
	SignedURL string
}

var notifyHTMLTemplate = htmltemplate.Must(htmltemplate.New("notify_html").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333; border-bottom: 2px solid #007bff; padding-bottom: 10px;">{{.Heading}}</h2>

  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #007bff; margin-top: 0;">Customer Details</h3>
    <p><strong>Name:</strong> {{.FullName}}</p>
    <p><strong>Phone:</strong> {{.Phone}}</p>
    <p><strong>Machine:</strong> {{.Machine}}</p>
    {{if not .IsGPS}}<p><strong>Issue Type:</strong> {{.IssueType}}</p>{{end}}
  </div>

  <div style="background-color: #fff3cd; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #ffc107;">
    <h3 style="color: #856404; margin-top: 0;">Issue Description</h3>
    <p style="white-space: pre-wrap;">{{.Issue}}</p>
  </div>

  <div style="background-color: #d1ecf1; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #17a2b8;">
    <h3 style="color: #0c5460; margin-top: 0;">File Information</h3>
    <p><strong>File Path:</strong> {{.FilePath}}</p>
    <p><strong>Mime Type:</strong> {{.MimeType}}</p>
    <p><strong>File Size:</strong> {{.FileSize}}</p>
  </div>

  <div style="text-align: center; margin: 30px 0;">
    <a href="{{.SignedURL}}"
       style="display: inline-block; background-color: #007bff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px; font-weight: bold;">
      View Uploaded Image
    </a>
    <p style="font-size: 12px; color: #666; margin-top: 10px;">Link expires in 24 hours</p>
  </div>

  <div style="border-top: 1px solid #dee2e6; padding-top: 20px; margin-top: 30px; text-align: center; color: #666;">
    <p><strong>Ready to Run CQ</strong></p>
    <p>Keeping your machinery running</p>
  </div>
</div>
`))

var notifyTextTemplate = texttemplate.Must(texttemplate.New("notify_text").Parse(`{{.Heading}}

Customer Details:
Name: {{.FullName}}
Phone: {{.Phone}}
Machine: {{.Machine}}
{{if not .IsGPS}}Issue Type: {{.IssueType}}
{{end}}Issue Description:
{{.Issue}}

File Information:
File Path: {{.FilePath}}
Mime Type: {{.MimeType}}
File Size: {{.FileSize}}

View Image: {{.SignedURL}}
(Link expires in 24 hours)

---
Ready to Run CQ
Keeping your machinery running
`))

func renderMessageBodies(data messageData) (html string, text string, err error) {
	var htmlBuf bytes.Buffer
	if err = notifyHTMLTemplate.Execute(&htmlBuf, data); err != nil {
		return "", "", err
	}

	var textBuf bytes.Buffer
	if err = notifyTextTemplate.Execute(&textBuf, data); err != nil {
		return "", "", err
	}

	return htmlBuf.String(), textBuf.String(), nil
}
