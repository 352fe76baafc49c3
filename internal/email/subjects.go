package email

const (
	subjectEnquiryConfirmation = "Thank you for your tent hire enquiry"
	subjectNewEnquiryFmt       = "New enquiry from %s (%s)"
)
