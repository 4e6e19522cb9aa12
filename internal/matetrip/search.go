package matetrip

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
)

const (
	PostsPath = "/posts"
)

type SearchParams struct {
	Text string `yaml:"text"`
	// mtparam is custom tag for reflect. Please see below.
	Statuses []string `mtparam:"status"`
	Keywords []string `mtparam:"keyword"`
	Location string   `yaml:"location"`
	OrderBy  string   `yaml:"order_by" mapstructure:"order_by"`
	Writer   string   `yaml:"writer_id" mapstructure:"writer_id"`
	PerPage  string   `yaml:"per_page" mapstructure:"per_page"`
}

func (c *Client) searchPosts(params *SearchParams) (*Posts, error) {
	if params == nil {
		params = &SearchParams{}
	}

	// Set per_page max as possible. It should be faster.
	if params.PerPage == "" {
		params.PerPage = perPage
	}

	q := buildParams(params)
	apiURLPosts := fmt.Sprintf("%s%s", c.APIURL, PostsPath)

	var posts []*Post
	if err := c.getJSON(apiURLPosts, q, &posts); err != nil {
		return nil, err
	}

	return &Posts{
		Items: posts,
	}, nil
}

func buildParams(params *SearchParams) url.Values {
	q := url.Values{}
	fields := reflect.VisibleFields(reflect.TypeOf(*params))
	for _, field := range fields {
		// Our custom tag is using here.
		key := field.Tag.Get("mtparam")
		if key == "" {
			// Failover to default tag if our tag do not exist.
			key = field.Tag.Get("yaml")
		}
		kind := field.Type.Kind()
		switch kind {
		case reflect.Slice:

			s := reflect.ValueOf(params).Elem().Field(field.Index[0]).Interface()
			switch v := s.(type) {
			case []int:
				for _, value := range v {
					q.Add(key, strconv.Itoa(value))
				}

			case []string:
				for _, value := range v {
					q.Add(key, value)
				}
			}

		default:
			value := fmt.Sprintf("%v", reflect.ValueOf(params).Elem().Field(field.Index[0]).Interface())
			if value != "" && value != "0" {
				q.Set(key, value)
			}
		}
	}

	return q
}
