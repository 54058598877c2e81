package dto

// EntitlementSource names where a tenant's entitlements were resolved from
type EntitlementSource string

const (
	EntitlementSourceSubscription EntitlementSource = "subscription"
	EntitlementSourceStandard     EntitlementSource = "standard"
	EntitlementSourceNone         EntitlementSource = "none"
)

// EntitlementResponse is the resolved set of premium features a tenant may use
// right now, with the plan that granted them.
type EntitlementResponse struct {
	PlanID   string             `json:"plan_id,omitempty"`
	PlanCode string             `json:"plan_code,omitempty"`
	Source   EntitlementSource  `json:"source"`
	Features []*FeatureResponse `json:"features"`
}

// HasFeature reports whether the resolved set contains the feature code
func (r *EntitlementResponse) HasFeature(code string) bool {
	for _, f := range r.Features {
		if f.Code == code {
			return true
		}
	}
	return false
}
