// Package skills turns free-text job postings into normalized, confidence-
// scored skill tags.
//
// The vocabulary and alias table below are plain data: the matcher and scorer
// never branch on individual skills, so extending the vocabulary is an edit
// here, not an algorithm change.
package skills

import (
	"strings"

	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/model"
)

// vocabulary maps each category to its canonical terms. Terms containing a
// literal dot compile to dot-optional patterns so "node.js" and "nodejs" hit
// the same entry.
var vocabulary = map[model.SkillCategory][]string{
	model.CategoryProgramming: {
		"python", "java", "javascript", "typescript", "c++", "c#", "php", "ruby", "swift", "kotlin",
		"scala", "golang", "go", "rust", "perl", "r", "matlab", "dart", "cobol", "fortran",
		"assembly", "vb.net", "objective-c", "shell scripting", "powershell", "bash",
	},
	model.CategoryFrontend: {
		"react", "angular", "vue.js", "vue", "svelte", "html5", "html", "css3", "css", "sass", "scss",
		"less", "bootstrap", "tailwind css", "material ui", "antd", "jquery", "backbone.js",
		"ember.js", "webpack", "vite", "parcel", "rollup", "next.js", "nuxt.js", "gatsby",
	},
	model.CategoryBackend: {
		"node.js", "nodejs", "express.js", "express", "django", "flask", "fastapi", "spring boot",
		"spring", "laravel", "codeigniter", "symfony", "rails", "ruby on rails", "asp.net",
		"nest.js", "koa.js", "hapi.js", "gin", "echo", "fiber", "actix", "rocket",
	},
	model.CategoryDatabases: {
		"mysql", "postgresql", "mongodb", "redis", "cassandra", "elasticsearch", "solr",
		"sqlite", "oracle", "sql server", "dynamodb", "couchdb", "neo4j", "influxdb",
		"clickhouse", "mariadb", "firestore", "realm", "hbase", "couchbase",
	},
	model.CategoryCloud: {
		"aws", "amazon web services", "azure", "microsoft azure", "gcp", "google cloud",
		"docker", "kubernetes", "terraform", "ansible", "jenkins", "gitlab ci", "gitlab", "github actions",
		"circleci", "travis ci", "helm", "istio", "consul", "vault", "nomad", "prometheus",
		"grafana", "elk stack", "datadog", "newrelic", "cloudformation", "pulumi",
	},
	model.CategoryMobile: {
		"android", "ios", "react native", "flutter", "xamarin", "ionic", "cordova", "phonegap",
		"native script", "unity", "unreal engine", "ar", "vr", "arkit", "arcore",
	},
	model.CategoryData: {
		"machine learning", "ml", "artificial intelligence", "ai", "deep learning", "nlp",
		"computer vision", "data science", "data analytics", "pandas", "numpy", "scipy",
		"scikit-learn", "tensorflow", "pytorch", "keras", "spark", "pyspark", "hadoop",
		"hive", "pig", "kafka", "airflow", "dbt", "snowflake", "databricks", "tableau",
		"power bi", "qlik", "looker", "jupyter", "r studio", "stata", "sas",
	},
	model.CategoryTools: {
		"git", "github", "gitlab", "bitbucket", "svn", "jira", "confluence", "slack", "teams",
		"figma", "sketch", "adobe xd", "invision", "postman", "insomnia", "swagger", "openapi",
		"linux", "ubuntu", "centos", "debian", "windows server", "macos", "vim", "vscode",
		"intellij", "eclipse", "sublime", "atom", "nginx", "apache", "tomcat", "iis",
	},
}

// aliases collapses overlapping spellings onto one canonical skill name, so
// e.g. "vue.js" and "vue" count under a single SkillKey.
var aliases = map[string]string{
	"gitlab ci":           "gitlab",
	"github actions":      "github",
	"amazon web services": "aws",
	"microsoft azure":     "azure",
	"gcp":                 "google cloud",
	"vue.js":              "vue",
	"express.js":          "express",
	"node.js":             "nodejs",
	"next.js":             "nextjs",
	"nuxt.js":             "nuxtjs",
}

// Normalize maps a raw matched string to its canonical skill name.
func Normalize(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := aliases[name]; ok {
		return canonical
	}
	return name
}
