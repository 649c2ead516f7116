package cli

const memberTemplate = `
=== Member ===

ID:   {{.ID}}
Name: {{.Name}}
`

const orderTemplate = `
=== Order {{.ID.OrderID}} (version {{.ID.Version}}) ===

Member:  {{.MemberID}}
Created: {{.CreateTime}}
{{- if .ExpiredAt }}
Expires: {{.ExpiredAt}}
{{- end}}
Price:   {{.Price}}
Paid:    {{if .Paid}}yes{{else}}no{{end}}
{{- if .Deleted }}
Deleted: yes
{{- end}}
{{- if .Server }}
Server:  {{.Server}}
{{- end}}
`
