package mailer

import "html/template"

var notificationTmpl = template.Must(template.New("notification").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333; border-bottom: 2px solid #007bff; padding-bottom: 10px;">New Contact Form Submission</h2>
  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #007bff; margin-top: 0;">Contact Details</h3>
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Subject:</strong> {{.Subject}}</p>
  </div>
  <div style="background-color: #fff; padding: 20px; border: 1px solid #dee2e6; border-radius: 8px;">
    <h3 style="color: #333; margin-top: 0;">Message</h3>
    <p style="line-height: 1.6; color: #555;">{{range $i, $l := .Lines}}{{if $i}}<br>{{end}}{{$l}}{{end}}</p>
  </div>
  <div style="margin-top: 20px; padding: 15px; background-color: #e9ecef; border-radius: 8px; font-size: 12px; color: #6c757d;">
    <p><strong>Sent from:</strong> Portfolio Website</p>
    <p><strong>Date:</strong> {{.Date}}</p>
  </div>
</div>`))

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333; border-bottom: 2px solid #007bff; padding-bottom: 10px;">Thank you for reaching out!</h2>
  <p style="line-height: 1.6; color: #555;">Hi {{.Name}},</p>
  <p style="line-height: 1.6; color: #555;">Thank you for contacting me through my portfolio website. I've received your message and will get back to you as soon as possible.</p>
  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #007bff; margin-top: 0;">Your Message Summary</h3>
    <p><strong>Subject:</strong> {{.Subject}}</p>
    <p><strong>Message:</strong> {{.Preview}}</p>
  </div>
  <p style="line-height: 1.6; color: #555;">Best regards,<br><strong>{{.Owner}}</strong><br>Full Stack Developer</p>
  <div style="margin-top: 20px; padding: 15px; background-color: #e9ecef; border-radius: 8px; font-size: 12px; color: #6c757d;">
    <p>This is an automated response. Please do not reply to this email.</p>
  </div>
</div>`))
