// Copyright 2026 Gold.Arch Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package index

// QueryBuilder accumulates metadata conditions into a Filter. Conditions on
// different fields combine with implicit AND; repeated operators on the same
// field merge into one operator map.
//
//	filter := index.NewQueryBuilder().
//	    ForProject("proj-1").
//	    Gte("uploadedAt", cutoff).
//	    WithTags("structural", "steel").
//	    Build()
type QueryBuilder struct {
	conditions Filter
}

// NewQueryBuilder creates an empty builder.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{conditions: Filter{}}
}

// op adds a single operator condition for field.
func (b *QueryBuilder) op(field, operator string, value any) *QueryBuilder {
	existing, ok := b.conditions[field].(map[string]any)
	if !ok {
		existing = map[string]any{}
		b.conditions[field] = existing
	}
	existing[operator] = value
	return b
}

// Eq requires field to equal value.
func (b *QueryBuilder) Eq(field string, value any) *QueryBuilder {
	return b.op(field, "$eq", value)
}

// Ne requires field to differ from value.
func (b *QueryBuilder) Ne(field string, value any) *QueryBuilder {
	return b.op(field, "$ne", value)
}

// Gt requires field to be greater than value.
func (b *QueryBuilder) Gt(field string, value any) *QueryBuilder {
	return b.op(field, "$gt", value)
}

// Gte requires field to be greater than or equal to value.
func (b *QueryBuilder) Gte(field string, value any) *QueryBuilder {
	return b.op(field, "$gte", value)
}

// Lt requires field to be less than value.
func (b *QueryBuilder) Lt(field string, value any) *QueryBuilder {
	return b.op(field, "$lt", value)
}

// Lte requires field to be less than or equal to value.
func (b *QueryBuilder) Lte(field string, value any) *QueryBuilder {
	return b.op(field, "$lte", value)
}

// In requires field to match one of values.
func (b *QueryBuilder) In(field string, values ...any) *QueryBuilder {
	return b.op(field, "$in", values)
}

// Nin requires field to match none of values.
func (b *QueryBuilder) Nin(field string, values ...any) *QueryBuilder {
	return b.op(field, "$nin", values)
}

// ForProject scopes matches to one project.
func (b *QueryBuilder) ForProject(projectID string) *QueryBuilder {
	return b.Eq("projectId", projectID)
}

// ForSupplier scopes matches to one supplier.
func (b *QueryBuilder) ForSupplier(supplierID string) *QueryBuilder {
	return b.Eq("supplierId", supplierID)
}

// ForDocument scopes matches to one source document.
func (b *QueryBuilder) ForDocument(documentID string) *QueryBuilder {
	return b.Eq("documentId", documentID)
}

// WithTags requires at least one of the given tags.
func (b *QueryBuilder) WithTags(tags ...string) *QueryBuilder {
	values := make([]any, len(tags))
	for i, tag := range tags {
		values[i] = tag
	}
	return b.op("tags", "$in", values)
}

// Build returns the accumulated filter, nil when no conditions were added.
func (b *QueryBuilder) Build() Filter {
	if len(b.conditions) == 0 {
		return nil
	}
	return b.conditions
}
