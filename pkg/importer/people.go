package importer

import (
	"strings"

	"github.com/crewcall-app/crewcall-engine/pkg/models"
	"github.com/crewcall-app/crewcall-engine/pkg/wpdump"
)

// planPeople derives a person row for every exported account. Profile
// attributes with a dedicated column are pulled through their alias
// chains; whatever remains goes into the free-form settings bag.
func planPeople(src *source, plan *importPlan, counts *ComponentCounts) {
	capabilitiesKey := capabilitiesMetaKey(src)

	for _, u := range src.users {
		person := &models.Person{
			ID:           models.PersonUUID(u.ID),
			LegacyID:     u.ID,
			Login:        u.Login,
			Email:        u.Email,
			DisplayName:  u.DisplayName,
			Slug:         u.Slug,
			WebsiteURL:   u.URL,
			RegisteredAt: u.RegisteredAt,
		}
		if person.DisplayName == "" {
			person.DisplayName = u.Login
		}
		if person.Slug == "" {
			person.Slug = u.Login
		}

		caps, _ := src.userMeta.Get(u.ID, capabilitiesKey)
		person.Role = models.DeriveRole(wpdump.DecodeRoles(caps))

		person.Bio, _ = src.userMeta.Get(u.ID, metaBio)
		person.Location, _ = src.userMeta.First(u.ID, locationKeys...)
		person.Phone, _ = src.userMeta.First(u.ID, phoneKeys...)

		person.Settings = settingsBag(src.userMeta[u.ID], src.prefix, capabilitiesKey)

		plan.people = append(plan.people, person)
		counts.Imported++
	}
}

// capabilitiesMetaKey is the role-map attribute key, which the legacy
// system namespaced with the site's table prefix.
func capabilitiesMetaKey(src *source) string {
	return src.prefix + "capabilities"
}

// settingsBag filters an account's remaining attributes into the
// free-form settings map. Keys consumed into dedicated columns, keys
// namespaced under the site prefix, underscore-prefixed internal keys
// and session state are all dropped; everything else is preserved.
func settingsBag(meta map[string]string, prefix, capabilitiesKey string) map[string]string {
	if len(meta) == 0 {
		return nil
	}

	consumed := map[string]bool{
		metaBio:           true,
		capabilitiesKey:   true,
		metaSessionTokens: true,
	}
	for _, k := range locationKeys {
		consumed[k] = true
	}
	for _, k := range phoneKeys {
		consumed[k] = true
	}

	var bag map[string]string
	for key, value := range meta {
		if consumed[key] || value == "" {
			continue
		}
		if strings.HasPrefix(key, "_") || strings.HasPrefix(key, prefix) {
			continue
		}
		if bag == nil {
			bag = make(map[string]string)
		}
		bag[key] = value
	}
	return bag
}
