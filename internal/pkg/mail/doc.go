// Package mail sends rendered notification emails.
//
// The email processor works against the Mail interface; SMTP delivers for
// real and Log writes the message to the structured log for local runs.
package mail
