package models

// ResourceClass — класс ресурса, ограничиваемого квотой тарифа.
type ResourceClass string

const (
	ResourceProfiles ResourceClass = "profiles"
	ResourceMenus    ResourceClass = "menus"
	ResourceItems    ResourceClass = "items"
	ResourceScans    ResourceClass = "scans"
)

// QuotaDecision — результат проверки квоты.
// Current/Max возвращаются и при отказе, чтобы клиент мог показать
// «N из M использовано» без дополнительного запроса.
type QuotaDecision struct {
	Allowed bool
	Current int
	Max     int
	Message string
}
