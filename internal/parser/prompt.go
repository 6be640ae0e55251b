package parser

const invoiceSchema = `{
  "customerName": "string",
  "vendorName": "string",
  "invoiceNumber": "string",
  "invoiceDate": "string (YYYY-MM-DD)",
  "dueDate": "string (YYYY-MM-DD)",
  "amount": number,
  "lineItems": [
    {
      "description": "string",
      "quantity": number,
      "unitPrice": number,
      "amount": number
    }
  ]
}`

// RejectionMessage is what the model returns for documents that are not invoices.
const RejectionMessage = "This document does not appear to be an invoice. Please upload a valid invoice document."

// InvoicePrompt is the system prompt for extracting one invoice from free text.
const InvoicePrompt = `You are an AI assistant specialized in processing invoice documents. Your task is to extract the following information from the invoice:

1. Customer name
2. Vendor name
3. Invoice number
4. Invoice date (in YYYY-MM-DD format)
5. Due date (in YYYY-MM-DD format)
6. Total amount
7. Line items (including description, quantity, unit price, and amount)

For each field, extract the information as accurately as possible. If a field is not present in the invoice, leave it empty or indicate it's not available.

For line items, create a structured array with each item containing description, quantity, unit price, and amount.

Format the output as a JSON object with the following structure:
` + invoiceSchema + `

Return ONLY valid JSON with no markdown formatting and no explanation.

IMPORTANT: You must STRICTLY validate that the document is a proper invoice.

If the document provided is NOT an invoice (such as a receipt, bill, billing statement, account statement, or other non-invoice document), you must return the following error message:

{
  "error": "` + RejectionMessage + `"
}

An invoice MUST have:
- A clear invoice number
- Vendor information
- Customer information
- Line items or itemized charges
- Payment terms with a due date

Do not attempt to extract information from non-invoice documents even if they contain similar information fields. The system is specifically designed for invoices only.`

// UpdatePrompt returns the system prompt for revising existing invoice data.
func UpdatePrompt(currentContent string) string {
	return `You are working with an existing invoice data. The current data is:

` + currentContent + `

Please update this data based on the user's request. Maintain the same structure for consistency:
` + invoiceSchema + `

Return a single JSON object for the invoice being updated, with no markdown formatting.

If working with multiple invoices, maintain the array structure.`
}
