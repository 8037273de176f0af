package spf

// provider is one static catalog entry: the base domain an SPF include
// mechanism points at, its display name and the category it is grouped
// under when reporting. This is a representative subset of the kind of
// provider-identification table real SPF auditing tools ship (the
// production-scale version of this file runs into the thousands of
// entries; this module carries a curated sample covering the categories
// spec.md's worked example exercises).
type provider struct {
	Name     string
	Category string
}

var providerCatalog = map[string]provider{
	// Email workspace / groupware providers.
	"google.com":           {"Google Workspace", "Email Workspaces"},
	"_spf.google.com":      {"Google Workspace", "Email Workspaces"},
	"outlook.com":          {"Microsoft 365", "Email Workspaces"},
	"protection.outlook.com": {"Microsoft 365", "Email Workspaces"},
	"zoho.com":             {"Zoho Mail", "Email Workspaces"},
	"zoho.eu":              {"Zoho Mail", "Email Workspaces"},
	"fastmail.com":         {"Fastmail", "Email Workspaces"},
	"protonmail.ch":        {"Proton Mail", "Email Workspaces"},

	// Transactional / marketing ESPs.
	"sendgrid.net":     {"SendGrid", "Transactional Email"},
	"mailgun.org":      {"Mailgun", "Transactional Email"},
	"mailgun.com":      {"Mailgun", "Transactional Email"},
	"amazonses.com":    {"Amazon SES", "Transactional Email"},
	"sparkpostmail.com": {"SparkPost", "Transactional Email"},
	"postmarkapp.com":  {"Postmark", "Transactional Email"},
	"mandrillapp.com":  {"Mandrill", "Transactional Email"},
	"mailjet.com":      {"Mailjet", "Transactional Email"},
	"sendinblue.com":   {"Brevo (Sendinblue)", "Transactional Email"},
	"brevo.com":        {"Brevo", "Transactional Email"},

	// Marketing automation / CRM.
	"salesforce.com":     {"Salesforce / Pardot", "Marketing Automation"},
	"pardot.com":         {"Pardot", "Marketing Automation"},
	"hubspot.com":        {"HubSpot", "Marketing Automation"},
	"marketo.com":        {"Marketo", "Marketing Automation"},
	"exacttarget.com":    {"Salesforce Marketing Cloud", "Marketing Automation"},
	"mailchimp.com":      {"Mailchimp", "Marketing Automation"},
	"constantcontact.com": {"Constant Contact", "Marketing Automation"},

	// Helpdesk / support.
	"zendesk.com":   {"Zendesk", "Helpdesk"},
	"freshdesk.com": {"Freshdesk", "Helpdesk"},
	"intercom.io":   {"Intercom", "Helpdesk"},

	// Registrar / hosting-provided mail.
	"godaddy.com":    {"GoDaddy Email", "Hosting-Provided Mail"},
	"secureserver.net": {"GoDaddy Email", "Hosting-Provided Mail"},
	"namecheap.com":  {"Namecheap Private Email", "Hosting-Provided Mail"},
	"bluehost.com":   {"Bluehost Mail", "Hosting-Provided Mail"},
	"ionos.com":      {"IONOS Mail", "Hosting-Provided Mail"},

	// Security / anti-spam gateways.
	"mimecast.com":   {"Mimecast", "Security Gateways"},
	"proofpoint.com": {"Proofpoint", "Security Gateways"},
	"barracuda.com":  {"Barracuda", "Security Gateways"},
	"messagelabs.com": {"Symantec MessageLabs", "Security Gateways"},
}
