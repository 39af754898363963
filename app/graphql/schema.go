// Package graphql exposes a read-only query surface over the catalog for
// storefront clients that want to fetch items and categories in one round
// trip.
package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/splatmarket/splatmarket/app/models"
	"github.com/splatmarket/splatmarket/app/services"
	"github.com/splatmarket/splatmarket/pkg/orm"
	"github.com/splatmarket/splatmarket/pkg/response"
)

// resolveItemID reads the record id explicitly; the default resolver cannot
// see fields promoted from the embedded gorm.Model.
func resolveItemID(p graphql.ResolveParams) (interface{}, error) {
	switch v := p.Source.(type) {
	case models.Item:
		return v.ID, nil
	case *models.Item:
		return v.ID, nil
	}
	return nil, nil
}

func resolveCategoryID(p graphql.ResolveParams) (interface{}, error) {
	switch v := p.Source.(type) {
	case models.Category:
		return v.ID, nil
	case *models.Category:
		return v.ID, nil
	}
	return nil, nil
}

func itemType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Item",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int, Resolve: resolveItemID},
			"name":        &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"price":       &graphql.Field{Type: graphql.Int},
			"image":       &graphql.Field{Type: graphql.String},
			"video":       &graphql.Field{Type: graphql.String},
			"splat":       &graphql.Field{Type: graphql.String},
			"category_id": &graphql.Field{Type: graphql.Int},
		},
	})
}

func categoryType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.Int, Resolve: resolveCategoryID},
			"name": &graphql.Field{Type: graphql.String},
		},
	})
}

// NewSchema builds the query root against the catalog service.
func NewSchema(catalog *services.CatalogService) (graphql.Schema, error) {
	item := itemType()
	category := categoryType()

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"items": &graphql.Field{
				Type: graphql.NewList(item),
				Args: graphql.FieldConfigArgument{
					"skip":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: orm.DefaultLimit},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					skip, _ := p.Args["skip"].(int)
					limit, _ := p.Args["limit"].(int)
					return catalog.ListItems(orm.Page(skip, limit))
				},
			},
			"item": &graphql.Field{
				Type: item,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					return catalog.GetItem(uint(id))
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(category),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return catalog.ListCategories(orm.Page(0, 0))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}

type request struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// Handler serves POST queries against the schema.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			Context:        r.Context(),
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result) //nolint:errcheck
	}
}
