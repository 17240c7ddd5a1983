// Package printing turns invoices into PDF documents.
//
// InvoiceTemplate renders the HTML with html/template and ChromedpRenderer
// prints it to PDF through headless Chrome:
//
//	html, err := printing.NewInvoiceTemplate().Render(doc)
//	pdf, err := renderer.Render(ctx, &printing.RenderRequest{HTML: html, Title: doc.Invoice.Number})
package printing
