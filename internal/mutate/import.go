package mutate

import (
	"strings"

	"schemadesk/internal/model"
	"schemadesk/internal/store"
)

// MergeModels applies imported models onto db, matching models by name and
// properties by name within their model (case-insensitive). Missing entries are
// created; matched properties take the imported key flag and, when one is
// given, the imported datatype. Imported
// ids are ignored: every new entity gets a fresh id from ids.
//
// Returned results include no-ops so callers can report what was touched.
func MergeModels(db *store.DB, ids store.IDGen, in []model.Model, allowed model.DataTypeSet) ([]Result, error) {
	var out []Result
	for _, im := range in {
		var target *model.Model
		for i := range db.Models {
			if strings.EqualFold(db.Models[i].Name, strings.TrimSpace(im.Name)) {
				target = &db.Models[i]
				break
			}
		}
		if target == nil {
			res, err := CreateModel(db, ids, im.Name)
			if err != nil {
				return out, err
			}
			out = append(out, res)
			target = res.Model
		}
		modelID := target.ID

		for _, ip := range im.Properties {
			m, _ := db.FindModel(modelID)
			var existing *model.Property
			for i := range m.Properties {
				if strings.EqualFold(m.Properties[i].Name, strings.TrimSpace(ip.Name)) {
					existing = &m.Properties[i]
					break
				}
			}
			if existing == nil {
				res, err := AddProperty(db, ids, modelID, PropertySpec{Name: ip.Name, DataType: ip.DataType, IsKey: ip.IsKey}, allowed)
				if err != nil {
					return out, err
				}
				out = append(out, res)
				continue
			}
			propID := existing.ID
			// A blank type leaves the current datatype alone.
			if strings.TrimSpace(ip.DataType) != "" {
				res, err := SetPropertyDataType(db, modelID, propID, ip.DataType, allowed)
				if err != nil {
					return out, err
				}
				out = append(out, res)
			}
			res, err := SetPropertyKey(db, modelID, propID, ip.IsKey)
			if err != nil {
				return out, err
			}
			out = append(out, res)
		}
	}
	return out, nil
}
