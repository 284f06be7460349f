package mail

import "fmt"

// ContactEmail renders the admin notification for a contact submission.
func ContactEmail(p ContactPayload) (subject, body string) {
	subject = fmt.Sprintf("New contact message from %s", p.Name)
	body = fmt.Sprintf("Name: %s\nEmail: %s\nMessage ID: %s\n\n%s\n", p.Name, p.Email, p.MessageID, p.Message)
	return subject, body
}

// PasswordResetEmail renders the reset link message.
func PasswordResetEmail(p PasswordResetPayload) (subject, body string) {
	subject = "Reset your Eagle password"
	body = fmt.Sprintf("Hi %s,\n\nUse the link below to choose a new password. It expires in 30 minutes and works once.\n\n%s\n\nIf you did not ask for this, ignore this email.\n", p.Username, p.ResetURL)
	return subject, body
}
