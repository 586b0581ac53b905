package lava

// CallbackOptions configures the webhook notification the scheduler
// sends on job completion.
type CallbackOptions struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	URL     string `json:"url"`
	Dataset string `json:"dataset"`
}

// addCallbackParams merges the callback fields into the job parameters.
// Nothing happens without a callback id. The kernelci callback type
// additionally selects the handler name from the test plan.
func addCallbackParams(params Params, opts *CallbackOptions) {
	if opts == nil || opts.ID == "" {
		return
	}
	if opts.Type == "kernelci" {
		handler := "test"
		if params.String("plan") == "boot" {
			handler = "boot"
		}
		params["callback_name"] = "lava/" + handler
	}
	params["callback"] = opts.ID
	params["callback_url"] = opts.URL
	params["callback_dataset"] = opts.Dataset
	params["callback_type"] = opts.Type
}
