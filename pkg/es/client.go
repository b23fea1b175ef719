// Package es 提供了与 Elasticsearch 交互的客户端功能。
package es

import (
	"abhishek-coaching-go/internal/config"
	"abhishek-coaching-go/internal/model"
	"abhishek-coaching-go/pkg/log"
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ESClient *elasticsearch.Client

// InitES 初始化 Elasticsearch 客户端，并确保咨询索引存在。
func InitES(esCfg config.ElasticsearchConfig) error {
	cfg := elasticsearch.Config{
		Addresses: strings.Split(esCfg.Addresses, ","),
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return err
	}
	ESClient = client
	return createIndexIfNotExists(esCfg.IndexName)
}

// admissionMapping 中姓名和地址走全文检索，其余字段精确匹配。
const admissionMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "long" },
			"student_name": { "type": "text" },
			"student_class": { "type": "keyword" },
			"batch_selection": { "type": "keyword" },
			"parent_name": { "type": "text" },
			"contact": { "type": "keyword" },
			"address": { "type": "text" },
			"mock_test_participation": { "type": "boolean" },
			"status": { "type": "keyword" },
			"submitted_at": { "type": "date" }
		}
	}
}`

// createIndexIfNotExists 检查索引是否存在，如果不存在则创建它
func createIndexIfNotExists(indexName string) error {
	res, err := ESClient.Indices.Exists([]string{indexName})
	if err != nil {
		log.Errorf("检查索引是否存在时出错: %v", err)
		return err
	}
	defer res.Body.Close()
	if !res.IsError() && res.StatusCode == http.StatusOK {
		log.Infof("索引 '%s' 已存在", indexName)
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("检查索引是否存在时收到意外的状态码: %d", res.StatusCode)
	}

	res, err = ESClient.Indices.Create(
		indexName,
		ESClient.Indices.Create.WithBody(strings.NewReader(admissionMapping)),
	)
	if err != nil {
		log.Errorf("创建索引 '%s' 失败: %v", indexName, err)
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		log.Errorf("创建索引 '%s' 时 Elasticsearch 返回错误: %s", indexName, res.String())
		return errors.New("创建索引时 Elasticsearch 返回错误")
	}

	log.Infof("索引 '%s' 创建成功", indexName)
	return nil
}

// AdmissionIndex 是咨询记录在 Elasticsearch 中的索引。
type AdmissionIndex struct {
	name string
}

// NewAdmissionIndex 返回使用全局客户端的索引，调用前需先 InitES。
func NewAdmissionIndex(name string) *AdmissionIndex {
	return &AdmissionIndex{name: name}
}

// IndexAdmission 写入或覆盖一条咨询文档，文档 ID 即记录 ID。
func (i *AdmissionIndex) IndexAdmission(ctx context.Context, doc model.AdmissionSearchDoc) error {
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      i.name,
		DocumentID: strconv.FormatUint(uint64(doc.ID), 10),
		Body:       bytes.NewReader(docBytes),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, ESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("索引文档到 Elasticsearch 出错: %s", res.String())
		return errors.New("failed to index admission")
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Score  float64                  `json:"_score"`
			Source model.AdmissionSearchDoc `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// SearchAdmissions 在姓名、地址中做全文检索，并精确匹配电话号码，按相关度排序。
func (i *AdmissionIndex) SearchAdmissions(ctx context.Context, query string, size int) ([]model.AdmissionSearchHit, error) {
	body := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query":     query,
							"fields":    []string{"student_name^2", "parent_name", "address"},
							"fuzziness": "AUTO",
						},
					},
					map[string]interface{}{"term": map[string]interface{}{"contact": query}},
					map[string]interface{}{"term": map[string]interface{}{"batch_selection": query}},
				},
				"minimum_should_match": 1,
			},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	res, err := ESClient.Search(
		ESClient.Search.WithContext(ctx),
		ESClient.Search.WithIndex(i.name),
		ESClient.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch search error: %s", res.String())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	hits := make([]model.AdmissionSearchHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, model.AdmissionSearchHit{
			ID:             h.Source.ID,
			StudentName:    h.Source.StudentName,
			ParentName:     h.Source.ParentName,
			Contact:        h.Source.Contact,
			BatchSelection: h.Source.BatchSelection,
			Status:         h.Source.Status,
			SubmittedAt:    model.LocalTime(h.Source.SubmittedAt),
			Score:          h.Score,
		})
	}
	return hits, nil
}
