package metrics

// Default engine metrics.
//
// Label conventions: operation is the resolved operation name, or ""
// when resolution itself failed; outcome is "ok" or "fault";
// faultcode is the qualified SOAP fault code (soap:Client,
// soap:Server).
var (
	// RequestsTotal counts dispatched requests.
	// Labels: operation, outcome
	RequestsTotal = NewCounter("soap_requests_total", "operation", "outcome")

	// FaultsTotal counts fault responses.
	// Labels: faultcode
	FaultsTotal = NewCounter("soap_faults_total", "faultcode")
)
